package db

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitDBIsRepeatable(t *testing.T) {
	db := setupTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
	var name string
	if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='promotions'").Scan(&name); err != nil {
		t.Fatalf("promotions table missing: %v", err)
	}
}

func TestRecordPromotionDedupesAssignment(t *testing.T) {
	db := setupTestDB(t)
	p := Promotion{RunID: "run-1", AssignmentID: 10, SubjectID: 100, SubjectType: "vocabulary", Characters: "食べる", Level: 5}
	id1, err := RecordPromotion(db, p)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	p.RunID = "run-2"
	id2, err := RecordPromotion(db, p)
	if err != nil {
		t.Fatalf("record again: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %d and %d", id1, id2)
	}
}

func TestRecordPromotionValidates(t *testing.T) {
	db := setupTestDB(t)
	if _, err := RecordPromotion(db, Promotion{AssignmentID: 1}); err == nil {
		t.Error("expected error for empty run id")
	}
	if _, err := RecordPromotion(db, Promotion{RunID: "r"}); err == nil {
		t.Error("expected error for missing assignment id")
	}
}

func TestListPromotionsFilters(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []Promotion{
		{RunID: "a", AssignmentID: 1, SubjectID: 11, SubjectType: "vocabulary", Characters: "一つ", Level: 1, MovedAt: base},
		{RunID: "a", AssignmentID: 2, SubjectID: 12, SubjectType: "vocabulary", Characters: "橋", Level: 12, MovedAt: base.Add(time.Minute)},
		{RunID: "b", AssignmentID: 3, SubjectID: 13, SubjectType: "kana_vocabulary", Characters: "わたし", Level: 3, MovedAt: base.Add(48 * time.Hour)},
	}
	for _, p := range records {
		if _, err := RecordPromotion(db, p); err != nil {
			t.Fatalf("record %s: %v", p.Characters, err)
		}
	}

	all, err := ListPromotions(db, PromotionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Characters != "わたし" {
		t.Fatalf("expected 3 rows newest first, got %+v", all)
	}
	if !all[2].MovedAt.Equal(base) {
		t.Errorf("moved_at round trip: got %v want %v", all[2].MovedAt, base)
	}

	tests := []struct {
		name string
		f    PromotionFilter
		want int
	}{
		{"by run", PromotionFilter{RunID: "a"}, 2},
		{"min level", PromotionFilter{MinLevel: 3}, 2},
		{"max level", PromotionFilter{MaxLevel: 3}, 2},
		{"since", PromotionFilter{Since: base.Add(time.Hour)}, 1},
		{"limit", PromotionFilter{Limit: 1}, 1},
	}
	for _, tt := range tests {
		got, err := ListPromotions(db, tt.f)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if len(got) != tt.want {
			t.Errorf("%s: got %d rows; want %d", tt.name, len(got), tt.want)
		}
	}

	counts, err := CountByRun(db)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts["a"] != 2 || counts["b"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}
