package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// RecordPromotion stores p and returns its row id. An assignment can only
// be started once, so a second record for the same assignment id returns
// the existing row instead of failing.
func RecordPromotion(db DBExecutor, p Promotion) (int64, error) {
	if strings.TrimSpace(p.RunID) == "" {
		return 0, fmt.Errorf("runID must be non-empty")
	}
	if p.AssignmentID <= 0 {
		return 0, fmt.Errorf("assignmentID must be positive")
	}
	if p.MovedAt.IsZero() {
		p.MovedAt = time.Now()
	}

	res, err := db.Exec(
		`INSERT INTO promotions (run_id, assignment_id, subject_id, subject_type, characters, level, moved_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.RunID, p.AssignmentID, p.SubjectID, p.SubjectType, p.Characters, p.Level, p.MovedAt.UTC(),
	)
	if err != nil {
		if !isUniqueConstraintErr(err) {
			return 0, fmt.Errorf("insert promotion: %w", err)
		}
		var id int64
		if err := db.QueryRow(`SELECT id FROM promotions WHERE assignment_id = ?`, p.AssignmentID).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	return res.LastInsertId()
}

// ListPromotions returns the promotions matching f, newest first.
func ListPromotions(db DBExecutor, f PromotionFilter) ([]Promotion, error) {
	q := sq.Select("id", "run_id", "assignment_id", "subject_id", "subject_type", "characters", "level", "moved_at").
		From("promotions").
		OrderBy("moved_at DESC", "id DESC")
	if f.RunID != "" {
		q = q.Where(sq.Eq{"run_id": f.RunID})
	}
	if f.MinLevel > 0 {
		q = q.Where(sq.GtOrEq{"level": f.MinLevel})
	}
	if f.MaxLevel > 0 {
		q = q.Where(sq.LtOrEq{"level": f.MaxLevel})
	}
	if !f.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"moved_at": f.Since.UTC()})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Promotion
	for rows.Next() {
		var p Promotion
		if err := rows.Scan(&p.ID, &p.RunID, &p.AssignmentID, &p.SubjectID, &p.SubjectType, &p.Characters, &p.Level, &p.MovedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByRun returns how many promotions each run recorded.
func CountByRun(db DBExecutor) (map[string]int, error) {
	rows, err := db.Query(`SELECT run_id, COUNT(*) FROM promotions GROUP BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var run string
		var n int
		if err := rows.Scan(&run, &n); err != nil {
			return nil, err
		}
		out[run] = n
	}
	return out, rows.Err()
}
