package rank

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/japaniel/wkjlpt/pkg/jlpt"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

func slugs(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Slug
	}
	return out
}

func TestCompareTotalOrder(t *testing.T) {
	a := Item{Slug: "A", Level: 3}
	b := Item{Slug: "B", Level: 1}
	c := Item{Slug: "C", Level: 10, PresentInService: true}
	d := Item{Slug: "D", Level: 2, PresentInService: true}

	tests := []struct {
		order PresentOrder
		want  []string
	}{
		{PresentDescending, []string{"B", "A", "C", "D"}},
		{PresentAscending, []string{"B", "A", "D", "C"}},
	}
	for _, tt := range tests {
		items := []Item{a, b, c, d}
		Sort(items, tt.order)
		if diff := cmp.Diff(tt.want, slugs(items)); diff != "" {
			t.Errorf("%s order mismatch (-want +got):\n%s", tt.order, diff)
		}
	}
}

func TestParsePresentOrder(t *testing.T) {
	for in, want := range map[string]PresentOrder{"": PresentDescending, "desc": PresentDescending, "asc": PresentAscending} {
		got, err := ParsePresentOrder(in)
		if err != nil || got != want {
			t.Errorf("ParsePresentOrder(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePresentOrder("sideways"); err == nil {
		t.Error("expected error for unknown order")
	}
}

func entry(slug string) jlpt.Entry {
	return jlpt.Entry{Slug: slug, Normalized: slug}
}

func TestRank(t *testing.T) {
	kanji := jlpt.NewKanjiLevels(map[string]int{"食": 5, "橋": 12, "政": 19, "治": 8})
	vocab := ServiceVocab([]wanikani.Subject{
		{ID: 1, Object: wanikani.TypeVocabulary, Data: wanikani.SubjectData{Characters: "政治", Level: 19}},
		{ID: 2, Object: wanikani.TypeVocabulary, Data: wanikani.SubjectData{Characters: "橋", Level: 12}},
	})
	entries := []jlpt.Entry{
		entry("政治"),
		entry("食べ物"), // 物 unknown → 20
		entry("食べる"), // 5
		entry("橋"),
		entry("コーヒー"), // 0
		entry("治す"),   // 8
	}

	items := Rank(entries, vocab, kanji)
	if diff := cmp.Diff([]string{"コーヒー", "食べる", "治す", "食べ物", "政治", "橋"}, slugs(items)); diff != "" {
		t.Fatalf("rank order mismatch (-want +got):\n%s", diff)
	}

	byslug := map[string]Item{}
	for _, it := range items {
		byslug[it.Slug] = it
	}
	if it := byslug["食べ物"]; it.Level != 20 || it.PresentInService {
		t.Errorf("unknown kanji entry: got %+v; want level 20, not present", it)
	}
	if it := byslug["政治"]; it.Level != 19 || !it.PresentInService {
		t.Errorf("service entry: got %+v; want level 19, present", it)
	}
	if !byslug["コーヒー"].ContainsKatakana || byslug["食べる"].ContainsKatakana {
		t.Errorf("katakana flag misassigned")
	}
}

func TestUnknownKanjiSortsAfterKnown(t *testing.T) {
	kanji := jlpt.NewKanjiLevels(map[string]int{"一": 1, "九": 60})
	items := Rank([]jlpt.Entry{entry("鬱"), entry("九"), entry("一")}, ServiceVocab(nil), kanji)
	if diff := cmp.Diff([]string{"一", "九", "鬱"}, slugs(items)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if items[2].Level != 61 {
		t.Errorf("unknown kanji level = %d; want 61", items[2].Level)
	}
}

func TestRankStableTies(t *testing.T) {
	kanji := jlpt.NewKanjiLevels(map[string]int{"山": 1, "川": 1})
	items := Rank([]jlpt.Entry{entry("川"), entry("山")}, ServiceVocab(nil), kanji)
	if diff := cmp.Diff([]string{"川", "山"}, slugs(items)); diff != "" {
		t.Fatalf("ties should keep input order (-want +got):\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []Item{{Slug: "食べる", Level: 5}, {Slug: "橋", Level: 12}})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got, want := buf.String(), "食べる,5\n橋,12\n"; got != want {
		t.Fatalf("WriteCSV output = %q; want %q", got, want)
	}
}
