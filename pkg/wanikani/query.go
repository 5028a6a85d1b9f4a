package wanikani

import (
	"net/url"
	"strconv"
	"strings"
)

// Bool returns a pointer to b, for optional query filters.
func Bool(b bool) *bool { return &b }

// SubjectQuery filters GET /subjects.
type SubjectQuery struct {
	Types  []string
	IDs    []int
	Levels []int
}

// Values encodes the query parameters.
func (q SubjectQuery) Values() url.Values {
	v := url.Values{}
	setList(v, "types", q.Types)
	setInts(v, "ids", q.IDs)
	setInts(v, "levels", q.Levels)
	return v
}

// AssignmentQuery filters GET /assignments.
type AssignmentQuery struct {
	Unlocked                       *bool
	Started                        *bool
	ImmediatelyAvailableForLessons *bool
	SubjectTypes                   []string
	SubjectIDs                     []int
	SRSStages                      []int
}

// Values encodes the query parameters.
func (q AssignmentQuery) Values() url.Values {
	v := url.Values{}
	setBool(v, "unlocked", q.Unlocked)
	setBool(v, "started", q.Started)
	// The service treats this one as a presence flag; false is expressed by omission.
	if q.ImmediatelyAvailableForLessons != nil && *q.ImmediatelyAvailableForLessons {
		v.Set("immediately_available_for_lessons", "true")
	}
	setList(v, "subject_types", q.SubjectTypes)
	setInts(v, "subject_ids", q.SubjectIDs)
	setInts(v, "srs_stages", q.SRSStages)
	return v
}

// StudyMaterialQuery filters GET /study_materials.
type StudyMaterialQuery struct {
	SubjectTypes []string
	SubjectIDs   []int
}

// Values encodes the query parameters.
func (q StudyMaterialQuery) Values() url.Values {
	v := url.Values{}
	setList(v, "subject_types", q.SubjectTypes)
	setInts(v, "subject_ids", q.SubjectIDs)
	return v
}

func setBool(v url.Values, key string, b *bool) {
	if b != nil {
		v.Set(key, strconv.FormatBool(*b))
	}
}

func setList(v url.Values, key string, items []string) {
	if len(items) > 0 {
		v.Set(key, strings.Join(items, ","))
	}
}

func setInts(v url.Values, key string, items []int) {
	if len(items) == 0 {
		return
	}
	parts := make([]string, len(items))
	for i, n := range items {
		parts[i] = strconv.Itoa(n)
	}
	v.Set(key, strings.Join(parts, ","))
}
