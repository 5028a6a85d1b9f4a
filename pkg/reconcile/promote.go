// Package reconcile matches JLPT vocabulary against the learner's WaniKani
// subjects and assignments.
package reconcile

import (
	"regexp"
	"strings"

	"github.com/japaniel/wkjlpt/pkg/index"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

// Candidate pairs a subject with the assignment that would be acted on.
type Candidate struct {
	Assignment wanikani.Assignment
	Subject    wanikani.Subject
}

// CharRule rewrites subject characters before they are looked up in the
// JLPT slug set. Rules run in the order of CharRules and each one either
// fires (changing the form) or leaves it alone.
type CharRule struct {
	Name  string
	Apply func(string) (string, bool)
}

var reCounterPrefix = regexp.MustCompile(`^第?[一二三四五六七八九十]+`)

// CharRules is the normalization chain for vocabulary subject characters.
var CharRules = []CharRule{
	{Name: "wave-dash", Apply: stripWaveDash},
	{Name: "counter-prefix", Apply: stripCounterPrefix},
	{Name: "suru-suffix", Apply: suffixRule("する")},
	{Name: "ni-suffix", Apply: suffixRule("に")},
}

// NormalizeCharacters applies CharRules to s.
func NormalizeCharacters(s string) string {
	for _, r := range CharRules {
		if out, ok := r.Apply(s); ok {
			s = out
		}
	}
	return s
}

func stripWaveDash(s string) (string, bool) {
	for _, p := range []string{"〜", "～", "~"} {
		if rest, ok := strings.CutPrefix(s, p); ok {
			return rest, true
		}
	}
	return s, false
}

func stripCounterPrefix(s string) (string, bool) {
	loc := reCounterPrefix.FindStringIndex(s)
	if loc == nil {
		return s, false
	}
	return s[loc[1]:], true
}

func suffixRule(suffix string) func(string) (string, bool) {
	return func(s string) (string, bool) {
		return strings.CutSuffix(s, suffix)
	}
}

// MatchesSlug reports whether the normalized form is in slugs, allowing
// the honorific お prefix to be present on either side.
func MatchesSlug(form string, slugs map[string]struct{}) bool {
	if _, ok := slugs[form]; ok {
		return true
	}
	if rest, ok := strings.CutPrefix(form, "お"); ok {
		_, found := slugs[rest]
		return found
	}
	_, found := slugs["お"+form]
	return found
}

// SelectPromotable returns the vocabulary subjects that sit in the lesson
// queue and belong to the JLPT slug set. Kana vocabulary is always
// eligible. The result keeps the order of subjects.
func SelectPromotable(assignments []wanikani.Assignment, subjects []wanikani.Subject, slugs map[string]struct{}) []Candidate {
	lessons := index.Filtered(assignments,
		func(a wanikani.Assignment) int { return a.Data.SubjectID },
		wanikani.Assignment.AvailableForLesson)

	var out []Candidate
	for _, s := range subjects {
		if !s.IsVocabulary() {
			continue
		}
		a, ok := lessons.Get(s.ID)
		if !ok {
			continue
		}
		if s.Object != wanikani.TypeKanaVocabulary && !MatchesSlug(NormalizeCharacters(s.Data.Characters), slugs) {
			continue
		}
		out = append(out, Candidate{Assignment: a, Subject: s})
	}
	return out
}
