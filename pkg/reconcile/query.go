package reconcile

import (
	"strings"

	"github.com/japaniel/wkjlpt/pkg/index"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

// Query narrows lesson-queue vocabulary by characters, meaning or reading.
// Empty fields match everything.
type Query struct {
	Characters string
	Meaning    string
	Reading    string
}

// Empty reports whether no filter is set.
func (q Query) Empty() bool {
	return q.Characters == "" && q.Meaning == "" && q.Reading == ""
}

// Match reports whether s satisfies every set field of q.
func (q Query) Match(s wanikani.Subject) bool {
	if q.Characters != "" && !strings.Contains(s.Data.Characters, q.Characters) {
		return false
	}
	if q.Meaning != "" && !matchMeaning(s, strings.ToLower(q.Meaning)) {
		return false
	}
	if q.Reading != "" && !matchReading(s, ToHiragana(q.Reading)) {
		return false
	}
	return true
}

func matchMeaning(s wanikani.Subject, needle string) bool {
	for _, m := range s.Data.Meanings {
		if strings.Contains(strings.ToLower(m.Meaning), needle) {
			return true
		}
	}
	for _, m := range s.Data.AuxiliaryMeanings {
		if m.Type == "whitelist" && strings.Contains(strings.ToLower(m.Meaning), needle) {
			return true
		}
	}
	return false
}

func matchReading(s wanikani.Subject, needle string) bool {
	if s.Object == wanikani.TypeKanaVocabulary {
		return strings.Contains(ToHiragana(s.Data.Characters), needle)
	}
	for _, r := range s.Data.Readings {
		if strings.Contains(ToHiragana(r.Reading), needle) {
			return true
		}
	}
	return false
}

// SelectByQuery returns lesson-queue vocabulary matching q, in subject order.
func SelectByQuery(assignments []wanikani.Assignment, subjects []wanikani.Subject, q Query) []Candidate {
	lessons := index.Filtered(assignments,
		func(a wanikani.Assignment) int { return a.Data.SubjectID },
		wanikani.Assignment.AvailableForLesson)

	var out []Candidate
	for _, s := range subjects {
		if !s.IsVocabulary() || !q.Match(s) {
			continue
		}
		if a, ok := lessons.Get(s.ID); ok {
			out = append(out, Candidate{Assignment: a, Subject: s})
		}
	}
	return out
}
