package db

import "time"

// Promotion records one assignment moved from lessons into reviews.
type Promotion struct {
	ID           int64
	RunID        string
	AssignmentID int
	SubjectID    int
	SubjectType  string
	Characters   string
	Level        int
	MovedAt      time.Time
}

// PromotionFilter narrows ListPromotions. Zero values match everything.
type PromotionFilter struct {
	RunID    string
	MinLevel int
	MaxLevel int
	Since    time.Time
	Limit    uint64
}
