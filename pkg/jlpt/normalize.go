package jlpt

import (
	"regexp"
	"slices"
)

// SlugRule is one step of slug normalization. Apply returns the new slug
// and whether the rule fired; a firing terminal rule ends the chain.
type SlugRule struct {
	Name     string
	Terminal bool
	Apply    func(e Entry, slug string) (string, bool)
}

var reDisambig = regexp.MustCompile(`-\d$`)

// SlugRules are applied in order by Normalize.
var SlugRules = []SlugRule{
	{Name: "kana-only-tag", Terminal: true, Apply: kanaOnlyTag},
	{Name: "kana-only-form", Terminal: true, Apply: kanaOnlyForm},
	{Name: "disambiguation-suffix", Terminal: true, Apply: stripDisambiguation},
}

// Normalize derives the canonical surface form of e. It depends only on e.
func Normalize(e Entry) string {
	slug := e.Slug
	for _, r := range SlugRules {
		out, ok := r.Apply(e, slug)
		if !ok {
			continue
		}
		slug = out
		if r.Terminal {
			break
		}
	}
	return slug
}

// kanaOnlyTag uses the reading when the primary sense is normally written in kana.
func kanaOnlyTag(e Entry, slug string) (string, bool) {
	if len(e.Senses) == 0 || !slices.Contains(e.Senses[0].Tags, KanaOnlyTag) {
		return slug, false
	}
	return e.Reading(), true
}

// kanaOnlyForm uses the reading for words that have no written form at all.
func kanaOnlyForm(e Entry, slug string) (string, bool) {
	if len(e.Japanese) != 1 || e.Japanese[0].Word != "" {
		return slug, false
	}
	return e.Reading(), true
}

// stripDisambiguation removes a "-N" suffix jisho adds to homographs.
func stripDisambiguation(_ Entry, slug string) (string, bool) {
	if !reDisambig.MatchString(slug) {
		return slug, false
	}
	return slug[:len(slug)-2], true
}
