package actions

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

func radicalFixtures() (radicals, kanji []wanikani.Subject, materials []wanikani.StudyMaterial) {
	radicals = []wanikani.Subject{
		{ID: 1, Object: wanikani.TypeRadical, Data: wanikani.SubjectData{
			Characters: "一", Level: 1, Slug: "ground",
			Meanings:               []wanikani.Meaning{{Meaning: "Ground", Primary: true, AcceptedAnswer: true}},
			AmalgamationSubjectIDs: []int{440, 441, 999},
		}},
		{ID: 2, Object: wanikani.TypeRadical, Data: wanikani.SubjectData{
			Level: 1, Slug: "stick",
		}},
	}
	kanji = []wanikani.Subject{
		{ID: 440, Object: wanikani.TypeKanji, Data: wanikani.SubjectData{
			Characters: "一", Level: 1, Slug: "一",
			Readings:                  []wanikani.Reading{{Reading: "いち", Type: "onyomi", Primary: true}},
			VisuallySimilarSubjectIDs: []int{441},
		}},
		{ID: 441, Object: wanikani.TypeKanji, Data: wanikani.SubjectData{Characters: "二", Level: 1, Slug: "二"}},
	}
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	materials = []wanikani.StudyMaterial{
		{ID: 50, DataUpdatedAt: created, Data: wanikani.StudyMaterialData{
			SubjectID: 1, SubjectType: wanikani.TypeRadical, MeaningNote: "flat", CreatedAt: &created,
			MeaningSynonyms: []string{"floor"},
		}},
	}
	return radicals, kanji, materials
}

func TestExportRadicals(t *testing.T) {
	radicals, kanji, materials := radicalFixtures()
	docs := ExportRadicals(radicals, kanji, materials)
	require.Len(t, docs, 2)

	first := docs[0]
	assert.Equal(t, "一二", first.RadicalSubject.AmalgamationSubjectIDs, "unknown amalgamation ids are skipped")
	assert.Equal(t, "flat", first.StudyMaterial.MeaningNote)
	require.NotNil(t, first.KanjiSubject)
	assert.Equal(t, 440, first.KanjiSubject.ID)
	assert.Equal(t, "二", first.KanjiSubject.VisuallySimilar)

	second := docs[1]
	assert.Nil(t, second.KanjiSubject, "image-only radicals have no kanji twin")
	assert.Nil(t, second.StudyMaterial.UpdatedAt)
	assert.NotNil(t, second.StudyMaterial.MeaningSynonyms)
}

func TestExportYAMLReadsBack(t *testing.T) {
	radicals, kanji, materials := radicalFixtures()
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, ExportRadicals(radicals, kanji, materials)))
	assert.Contains(t, buf.String(), "radical_subject:")
	assert.Contains(t, buf.String(), "meaning_synonyms: []")

	docs, err := ReadYAML(&buf)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, []string{"floor"}, docs[0].StudyMaterial.MeaningSynonyms)
}

type fakeWriter struct {
	created []wanikani.StudyMaterialUpdate
	updated map[int]wanikani.StudyMaterialUpdate
}

func (f *fakeWriter) CreateStudyMaterial(_ context.Context, u wanikani.StudyMaterialUpdate) (wanikani.StudyMaterial, error) {
	f.created = append(f.created, u)
	return wanikani.StudyMaterial{}, nil
}

func (f *fakeWriter) UpdateStudyMaterial(_ context.Context, id int, u wanikani.StudyMaterialUpdate) (wanikani.StudyMaterial, error) {
	if f.updated == nil {
		f.updated = map[int]wanikani.StudyMaterialUpdate{}
	}
	f.updated[id] = u
	return wanikani.StudyMaterial{}, nil
}

func TestSyncRadicals(t *testing.T) {
	radicals, kanji, materials := radicalFixtures()
	radicals = append(radicals, wanikani.Subject{ID: 3, Object: wanikani.TypeRadical, Data: wanikani.SubjectData{Slug: "drop"}})
	docs := ExportRadicals(radicals, kanji, materials)

	// Unchanged export is a no-op.
	w := &fakeWriter{}
	res, err := SyncRadicals(context.Background(), w, docs, materials, nil)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Unchanged: 3}, res)

	// Edit one existing material and add notes to a radical without one.
	docs[0].StudyMaterial.MeaningNote = "the ground is flat"
	docs[2].StudyMaterial.MeaningSynonyms = []string{"droplet"}
	w = &fakeWriter{}
	res, err = SyncRadicals(context.Background(), w, docs, materials, nil)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Created: 1, Updated: 1, Unchanged: 1}, res)
	assert.Equal(t, "the ground is flat", w.updated[50].MeaningNote)
	require.Len(t, w.created, 1)
	assert.Equal(t, 3, w.created[0].SubjectID)
	assert.Equal(t, []string{"droplet"}, w.created[0].MeaningSynonyms)
}
