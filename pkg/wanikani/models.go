package wanikani

import "time"

// Subject object types.
const (
	TypeRadical        = "radical"
	TypeKanji          = "kanji"
	TypeVocabulary     = "vocabulary"
	TypeKanaVocabulary = "kana_vocabulary"
)

// Subject is an item in the WaniKani catalog.
type Subject struct {
	ID            int         `json:"id"`
	Object        string      `json:"object"`
	URL           string      `json:"url"`
	DataUpdatedAt time.Time   `json:"data_updated_at"`
	Data          SubjectData `json:"data"`
}

// SubjectData holds the fields shared by all subject types. Fields that a
// type does not carry are left empty (radicals have no readings, kana
// vocabulary has no component subjects).
type SubjectData struct {
	Characters                string          `json:"characters"`
	Level                     int             `json:"level"`
	Slug                      string          `json:"slug"`
	DocumentURL               string          `json:"document_url"`
	Meanings                  []Meaning       `json:"meanings"`
	AuxiliaryMeanings         []AuxMeaning    `json:"auxiliary_meanings"`
	Readings                  []Reading       `json:"readings,omitempty"`
	ComponentSubjectIDs       []int           `json:"component_subject_ids,omitempty"`
	AmalgamationSubjectIDs    []int           `json:"amalgamation_subject_ids,omitempty"`
	VisuallySimilarSubjectIDs []int           `json:"visually_similar_subject_ids,omitempty"`
	MeaningMnemonic           string          `json:"meaning_mnemonic"`
	MeaningHint               string          `json:"meaning_hint,omitempty"`
	ReadingMnemonic           string          `json:"reading_mnemonic,omitempty"`
	ReadingHint               string          `json:"reading_hint,omitempty"`
	HiddenAt                  *time.Time      `json:"hidden_at"`
	PartsOfSpeech             []string        `json:"parts_of_speech,omitempty"`
	ContextSentences          []ContextPhrase `json:"context_sentences,omitempty"`
}

// Meaning is one accepted meaning of a subject.
type Meaning struct {
	Meaning        string `json:"meaning" yaml:"meaning"`
	Primary        bool   `json:"primary" yaml:"primary"`
	AcceptedAnswer bool   `json:"accepted_answer" yaml:"accepted_answer"`
}

// AuxMeaning is a whitelisted or blacklisted alternative meaning.
type AuxMeaning struct {
	Meaning string `json:"meaning" yaml:"meaning"`
	Type    string `json:"type" yaml:"type"`
}

// Reading is a kanji or vocabulary reading. Type is only set for kanji
// (onyomi, kunyomi, nanori).
type Reading struct {
	Reading        string `json:"reading" yaml:"reading"`
	Type           string `json:"type,omitempty" yaml:"type,omitempty"`
	Primary        bool   `json:"primary" yaml:"primary"`
	AcceptedAnswer bool   `json:"accepted_answer" yaml:"accepted_answer"`
}

// ContextPhrase is an example sentence attached to vocabulary.
type ContextPhrase struct {
	En string `json:"en"`
	Ja string `json:"ja"`
}

// IsVocabulary reports whether the subject is vocabulary or kana vocabulary.
func (s Subject) IsVocabulary() bool {
	return s.Object == TypeVocabulary || s.Object == TypeKanaVocabulary
}

// PrimaryMeaning returns the primary meaning, or the first one if none is flagged.
func (s Subject) PrimaryMeaning() string {
	for _, m := range s.Data.Meanings {
		if m.Primary {
			return m.Meaning
		}
	}
	if len(s.Data.Meanings) > 0 {
		return s.Data.Meanings[0].Meaning
	}
	return ""
}

// Assignment is the learner's progress on a single subject.
type Assignment struct {
	ID            int            `json:"id"`
	Object        string         `json:"object"`
	URL           string         `json:"url"`
	DataUpdatedAt time.Time      `json:"data_updated_at"`
	Data          AssignmentData `json:"data"`
}

// AssignmentData mirrors the assignment payload.
type AssignmentData struct {
	SubjectID   int        `json:"subject_id"`
	SubjectType string     `json:"subject_type"`
	SRSStage    int        `json:"srs_stage"`
	CreatedAt   *time.Time `json:"created_at"`
	UnlockedAt  *time.Time `json:"unlocked_at"`
	StartedAt   *time.Time `json:"started_at"`
	PassedAt    *time.Time `json:"passed_at"`
	BurnedAt    *time.Time `json:"burned_at"`
	AvailableAt *time.Time `json:"available_at"`
	Hidden      bool       `json:"hidden"`
}

// Started reports whether the assignment has left the lesson queue.
func (a Assignment) Started() bool { return a.Data.StartedAt != nil }

// Unlocked reports whether the subject has been unlocked for the learner.
func (a Assignment) Unlocked() bool { return a.Data.UnlockedAt != nil }

// AvailableForLesson reports whether the assignment sits in the lesson queue.
func (a Assignment) AvailableForLesson() bool { return a.Unlocked() && !a.Started() }

// StudyMaterial holds the learner's notes and synonyms for a subject.
type StudyMaterial struct {
	ID            int               `json:"id"`
	Object        string            `json:"object"`
	URL           string            `json:"url"`
	DataUpdatedAt time.Time         `json:"data_updated_at"`
	Data          StudyMaterialData `json:"data"`
}

// StudyMaterialData mirrors the study material payload.
type StudyMaterialData struct {
	SubjectID       int        `json:"subject_id"`
	SubjectType     string     `json:"subject_type"`
	MeaningNote     string     `json:"meaning_note"`
	ReadingNote     string     `json:"reading_note"`
	MeaningSynonyms []string   `json:"meaning_synonyms"`
	CreatedAt       *time.Time `json:"created_at"`
	Hidden          bool       `json:"hidden"`
}

// StudyMaterialUpdate is the writable subset of a study material.
type StudyMaterialUpdate struct {
	SubjectID       int      `json:"subject_id,omitempty"`
	MeaningNote     string   `json:"meaning_note"`
	ReadingNote     string   `json:"reading_note"`
	MeaningSynonyms []string `json:"meaning_synonyms"`
}

type pagination struct {
	PerPage     int     `json:"per_page"`
	NextURL     *string `json:"next_url"`
	PreviousURL *string `json:"previous_url"`
}

type collectionPage[T any] struct {
	Object     string     `json:"object"`
	URL        string     `json:"url"`
	Pages      pagination `json:"pages"`
	TotalCount int        `json:"total_count"`
	Data       []T        `json:"data"`
}
