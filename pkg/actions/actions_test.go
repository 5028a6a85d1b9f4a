package actions

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/wkjlpt/pkg/db"
	"github.com/japaniel/wkjlpt/pkg/jlpt"
	"github.com/japaniel/wkjlpt/pkg/reconcile"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

type fakeStarter struct {
	started []int
	failOn  int
}

func (f *fakeStarter) StartAssignment(_ context.Context, id int) (wanikani.Assignment, error) {
	if id == f.failOn {
		return wanikani.Assignment{}, &wanikani.APIError{StatusCode: 422, Status: "422 Unprocessable Entity"}
	}
	f.started = append(f.started, id)
	return wanikani.Assignment{ID: id}, nil
}

func candidates(n int) []reconcile.Candidate {
	out := make([]reconcile.Candidate, n)
	for i := range out {
		out[i] = reconcile.Candidate{
			Assignment: wanikani.Assignment{ID: 100 + i, Data: wanikani.AssignmentData{SubjectID: i + 1}},
			Subject: wanikani.Subject{ID: i + 1, Object: wanikani.TypeVocabulary,
				Data: wanikani.SubjectData{Characters: string(rune('一' + i)), Level: i + 1}},
		}
	}
	return out
}

func TestPromoteCap(t *testing.T) {
	starter := &fakeStarter{}
	var out bytes.Buffer
	p := &Promoter{Starter: starter, Out: &out}

	res, err := p.Promote(context.Background(), candidates(5), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 101}, starter.started)
	assert.Len(t, res.Moved, 2)
	assert.Equal(t, 3, res.Remaining)

	res.WriteSummary(&out)
	assert.Contains(t, out.String(), "Total vocabulary moved to review: 2")
	assert.Contains(t, out.String(), "Not moved: 3")
}

func TestPromoteCapLargerThanCandidates(t *testing.T) {
	starter := &fakeStarter{}
	res, err := (&Promoter{Starter: starter}).Promote(context.Background(), candidates(2), 100)
	require.NoError(t, err)
	assert.Len(t, res.Moved, 2)
	assert.Zero(t, res.Remaining)

	var out bytes.Buffer
	res.WriteSummary(&out)
	assert.NotContains(t, out.String(), "Not moved")
}

func TestPromoteRejectsNonPositive(t *testing.T) {
	_, err := (&Promoter{Starter: &fakeStarter{}}).Promote(context.Background(), candidates(1), 0)
	require.ErrorIs(t, err, ErrInvalidCount)
}

func TestPromoteStopsOnFailure(t *testing.T) {
	starter := &fakeStarter{failOn: 102}
	res, err := (&Promoter{Starter: starter}).Promote(context.Background(), candidates(5), 5)
	require.Error(t, err)
	var apiErr *wanikani.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []int{100, 101}, starter.started, "later candidates must stay untouched")
	assert.Len(t, res.Moved, 2)
	assert.Equal(t, 3, res.Remaining)
}

func TestPromoteRecordsLedger(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	defer conn.Close()
	require.NoError(t, db.InitDB(conn))

	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	p := &Promoter{Starter: &fakeStarter{}, Ledger: conn, RunID: "run-x", Now: func() time.Time { return fixed }}
	_, err = p.Promote(context.Background(), candidates(3), 3)
	require.NoError(t, err)

	rows, err := db.ListPromotions(conn, db.PromotionFilter{RunID: "run-x"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].MovedAt.Equal(fixed))
}

func TestSelectAndStart(t *testing.T) {
	starter := &fakeStarter{}
	in := strings.NewReader("y\nn\nyes\n")
	var out bytes.Buffer
	confirm := NewPromptConfirmer(in, &out)

	started, err := SelectAndStart(context.Background(), starter, candidates(4), confirm, &out)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 102}, starter.started)
	assert.Len(t, started, 2)
	assert.Contains(t, out.String(), "Add to reviews? [y/N]")
}

func TestCountBySRSStage(t *testing.T) {
	as := []wanikani.Assignment{
		{Data: wanikani.AssignmentData{SRSStage: 1}},
		{Data: wanikani.AssignmentData{SRSStage: 1}},
		{Data: wanikani.AssignmentData{SRSStage: 4}},
		{Data: wanikani.AssignmentData{SRSStage: 9}},
	}
	counts := CountBySRSStage(as)
	assert.Equal(t, map[int]int{1: 2, 4: 1, 9: 1}, counts)

	var out bytes.Buffer
	WriteStageReport(&out, counts)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Apprentice I "))
	assert.True(t, strings.HasPrefix(lines[2], "Burned"))
	assert.Contains(t, lines[3], "4")
	assert.Equal(t, "Stage 12", StageName(12))
}

func TestWriteEntries(t *testing.T) {
	entries := []jlpt.Entry{
		{Normalized: "ちょっと", Japanese: []jlpt.Japanese{{Reading: "ちょっと"}}},
		{Normalized: "たくさん", Japanese: []jlpt.Japanese{{Word: "沢山", Reading: "たくさん"}}},
	}
	var buf bytes.Buffer
	WriteEntries(&buf, entries)
	assert.Equal(t, "ちょっと\nたくさん\t沢山 (たくさん)\n", buf.String())
}
