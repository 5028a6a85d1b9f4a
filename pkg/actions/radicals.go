package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/japaniel/wkjlpt/pkg/index"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

// RadicalExport is one document of the radicals export.
type RadicalExport struct {
	RadicalSubject RadicalSubject `yaml:"radical_subject"`
	StudyMaterial  StudyMaterial  `yaml:"study_material"`
	KanjiSubject   *KanjiSubject  `yaml:"kanji_subject,omitempty"`
}

// RadicalSubject is the exported view of a radical.
type RadicalSubject struct {
	ID                     int                   `yaml:"id"`
	Level                  int                   `yaml:"level"`
	Slug                   string                `yaml:"slug"`
	DocumentURL            string                `yaml:"document_url"`
	Characters             string                `yaml:"characters"`
	Meanings               []wanikani.Meaning    `yaml:"meanings"`
	AuxiliaryMeanings      []wanikani.AuxMeaning `yaml:"auxiliary_meanings"`
	AmalgamationSubjectIDs string                `yaml:"amalgamation_subject_ids"`
	MeaningMnemonic        string                `yaml:"meaning_mnemonic"`
}

// KanjiSubject is the exported view of the kanji sharing a radical's characters.
type KanjiSubject struct {
	ID                  int                   `yaml:"id"`
	Level               int                   `yaml:"level"`
	Slug                string                `yaml:"slug"`
	DocumentURL         string                `yaml:"document_url"`
	Meanings            []wanikani.Meaning    `yaml:"meanings"`
	AuxiliaryMeanings   []wanikani.AuxMeaning `yaml:"auxiliary_meanings"`
	Readings            []wanikani.Reading    `yaml:"readings"`
	ComponentSubjectIDs []int                 `yaml:"component_subject_ids"`
	VisuallySimilar     string                `yaml:"visually_similar"`
	MeaningMnemonic     string                `yaml:"meaning_mnemonic"`
	MeaningHint         string                `yaml:"meaning_hint"`
	ReadingMnemonic     string                `yaml:"reading_mnemonic"`
	ReadingHint         string                `yaml:"reading_hint"`
}

// StudyMaterial is the editable part of the export.
type StudyMaterial struct {
	UpdatedAt       *time.Time `yaml:"updated_at"`
	CreatedAt       *time.Time `yaml:"created_at"`
	MeaningNote     string     `yaml:"meaning_note"`
	ReadingNote     string     `yaml:"reading_note"`
	MeaningSynonyms []string   `yaml:"meaning_synonyms"`
}

func (m StudyMaterial) empty() bool {
	return m.MeaningNote == "" && m.ReadingNote == "" && len(m.MeaningSynonyms) == 0
}

func (m StudyMaterial) sameContent(d wanikani.StudyMaterialData) bool {
	return m.MeaningNote == d.MeaningNote &&
		m.ReadingNote == d.ReadingNote &&
		slices.Equal(normalizeSynonyms(m.MeaningSynonyms), normalizeSynonyms(d.MeaningSynonyms))
}

func normalizeSynonyms(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// ExportRadicals joins radicals with their study materials and with the
// kanji written with the same characters.
func ExportRadicals(radicals, kanji []wanikani.Subject, materials []wanikani.StudyMaterial) []RadicalExport {
	kanjiByID := index.By(kanji, func(s wanikani.Subject) int { return s.ID })
	kanjiByChar := index.By(kanji, func(s wanikani.Subject) string { return s.Data.Characters })
	smBySubject := index.By(materials, func(m wanikani.StudyMaterial) int { return m.Data.SubjectID })

	charsOf := func(ids []int) string {
		var b strings.Builder
		for _, id := range ids {
			if k, ok := kanjiByID.Get(id); ok {
				b.WriteString(k.Data.Characters)
			}
		}
		return b.String()
	}

	out := make([]RadicalExport, 0, len(radicals))
	for _, r := range radicals {
		doc := RadicalExport{
			RadicalSubject: RadicalSubject{
				ID:                     r.ID,
				Level:                  r.Data.Level,
				Slug:                   r.Data.Slug,
				DocumentURL:            r.Data.DocumentURL,
				Characters:             r.Data.Characters,
				Meanings:               r.Data.Meanings,
				AuxiliaryMeanings:      r.Data.AuxiliaryMeanings,
				AmalgamationSubjectIDs: charsOf(r.Data.AmalgamationSubjectIDs),
				MeaningMnemonic:        r.Data.MeaningMnemonic,
			},
			StudyMaterial: StudyMaterial{MeaningSynonyms: []string{}},
		}
		if sm, ok := smBySubject.Get(r.ID); ok {
			updated := sm.DataUpdatedAt
			doc.StudyMaterial = StudyMaterial{
				UpdatedAt:       &updated,
				CreatedAt:       sm.Data.CreatedAt,
				MeaningNote:     sm.Data.MeaningNote,
				ReadingNote:     sm.Data.ReadingNote,
				MeaningSynonyms: sm.Data.MeaningSynonyms,
			}
			if doc.StudyMaterial.MeaningSynonyms == nil {
				doc.StudyMaterial.MeaningSynonyms = []string{}
			}
		}
		if r.Data.Characters != "" {
			if k, ok := kanjiByChar.Get(r.Data.Characters); ok {
				doc.KanjiSubject = &KanjiSubject{
					ID:                  k.ID,
					Level:               k.Data.Level,
					Slug:                k.Data.Slug,
					DocumentURL:         k.Data.DocumentURL,
					Meanings:            k.Data.Meanings,
					AuxiliaryMeanings:   k.Data.AuxiliaryMeanings,
					Readings:            k.Data.Readings,
					ComponentSubjectIDs: k.Data.ComponentSubjectIDs,
					VisuallySimilar:     charsOf(k.Data.VisuallySimilarSubjectIDs),
					MeaningMnemonic:     k.Data.MeaningMnemonic,
					MeaningHint:         k.Data.MeaningHint,
					ReadingMnemonic:     k.Data.ReadingMnemonic,
					ReadingHint:         k.Data.ReadingHint,
				}
			}
		}
		out = append(out, doc)
	}
	return out
}

// WriteYAML encodes docs as a single YAML sequence.
func WriteYAML(w io.Writer, docs []RadicalExport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return err
	}
	return enc.Close()
}

// ReadYAML decodes an export written by WriteYAML.
func ReadYAML(r io.Reader) ([]RadicalExport, error) {
	var docs []RadicalExport
	if err := yaml.NewDecoder(r).Decode(&docs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode radicals export: %w", err)
	}
	return docs, nil
}

// StudyMaterialWriter creates and updates study materials. *wanikani.Client implements it.
type StudyMaterialWriter interface {
	CreateStudyMaterial(ctx context.Context, u wanikani.StudyMaterialUpdate) (wanikani.StudyMaterial, error)
	UpdateStudyMaterial(ctx context.Context, id int, u wanikani.StudyMaterialUpdate) (wanikani.StudyMaterial, error)
}

// SyncResult counts the outcome of SyncRadicals.
type SyncResult struct {
	Created   int
	Updated   int
	Unchanged int
}

// SyncRadicals pushes the study materials in docs to the service. Existing
// materials are updated only when their content differs; missing ones are
// created only when the document carries some content. Requests are
// issued one at a time and the first failure stops the sync.
func SyncRadicals(ctx context.Context, w StudyMaterialWriter, docs []RadicalExport, existing []wanikani.StudyMaterial, log *zap.Logger) (SyncResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	bySubject := index.By(existing, func(m wanikani.StudyMaterial) int { return m.Data.SubjectID })

	var res SyncResult
	for _, doc := range docs {
		subjectID := doc.RadicalSubject.ID
		want := doc.StudyMaterial
		upd := wanikani.StudyMaterialUpdate{
			SubjectID:       subjectID,
			MeaningNote:     want.MeaningNote,
			ReadingNote:     want.ReadingNote,
			MeaningSynonyms: want.MeaningSynonyms,
		}
		if upd.MeaningSynonyms == nil {
			upd.MeaningSynonyms = []string{}
		}

		cur, ok := bySubject.Get(subjectID)
		switch {
		case ok && want.sameContent(cur.Data):
			res.Unchanged++
		case ok:
			if _, err := w.UpdateStudyMaterial(ctx, cur.ID, upd); err != nil {
				return res, err
			}
			log.Info("updated study material", zap.Int("subject_id", subjectID), zap.String("slug", doc.RadicalSubject.Slug))
			res.Updated++
		case want.empty():
			res.Unchanged++
		default:
			if _, err := w.CreateStudyMaterial(ctx, upd); err != nil {
				return res, err
			}
			log.Info("created study material", zap.Int("subject_id", subjectID), zap.String("slug", doc.RadicalSubject.Slug))
			res.Created++
		}
	}
	return res, nil
}
