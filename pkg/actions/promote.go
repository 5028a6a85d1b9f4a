// Package actions performs the side-effecting and reporting steps that
// follow reconciliation: starting assignments, exporting and syncing study
// materials, and summarizing progress.
package actions

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/japaniel/wkjlpt/pkg/db"
	"github.com/japaniel/wkjlpt/pkg/reconcile"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

// AssignmentStarter starts an assignment. *wanikani.Client implements it.
type AssignmentStarter interface {
	StartAssignment(ctx context.Context, assignmentID int) (wanikani.Assignment, error)
}

// Promoter moves lesson-queue candidates into reviews.
type Promoter struct {
	Starter AssignmentStarter
	// Ledger receives one row per started assignment. nil disables recording.
	Ledger db.DBExecutor
	RunID  string
	Out    io.Writer
	Logger *zap.Logger
	Now    func() time.Time
}

// PromoteResult reports what a Promote call did.
type PromoteResult struct {
	Moved     []reconcile.Candidate
	Remaining int
}

// Promote starts the first n candidates in the order given, one request at
// a time. On failure the assignments already started stay started and the
// result lists them alongside the error.
func (p *Promoter) Promote(ctx context.Context, candidates []reconcile.Candidate, n int) (PromoteResult, error) {
	if n <= 0 {
		return PromoteResult{}, ErrInvalidCount
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	numToMove := min(n, len(candidates))
	res := PromoteResult{Remaining: len(candidates)}
	for _, c := range candidates[:numToMove] {
		if _, err := p.Starter.StartAssignment(ctx, c.Assignment.ID); err != nil {
			return res, err
		}
		res.Moved = append(res.Moved, c)
		res.Remaining--
		fmt.Fprintf(out, "Moved %s (Level %d) to review\n", c.Subject.Data.Characters, c.Subject.Data.Level)
		log.Debug("assignment started",
			zap.Int("assignment_id", c.Assignment.ID),
			zap.Int("subject_id", c.Subject.ID),
			zap.String("characters", c.Subject.Data.Characters))

		if p.Ledger == nil {
			continue
		}
		if _, err := db.RecordPromotion(p.Ledger, NewPromotion(p.RunID, c, now())); err != nil {
			// The service already started it; a ledger miss is not worth aborting for.
			log.Warn("failed to record promotion", zap.Int("assignment_id", c.Assignment.ID), zap.Error(err))
		}
	}
	return res, nil
}

// NewPromotion builds the ledger row for a started candidate.
func NewPromotion(runID string, c reconcile.Candidate, at time.Time) db.Promotion {
	return db.Promotion{
		RunID:        runID,
		AssignmentID: c.Assignment.ID,
		SubjectID:    c.Subject.ID,
		SubjectType:  c.Subject.Object,
		Characters:   c.Subject.Data.Characters,
		Level:        c.Subject.Data.Level,
		MovedAt:      at,
	}
}

// WriteSummary prints the moved and remaining counts.
func (r PromoteResult) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "Total vocabulary moved to review: %d\n", len(r.Moved))
	if r.Remaining > 0 {
		fmt.Fprintf(w, "Not moved: %d\n", r.Remaining)
	}
}
