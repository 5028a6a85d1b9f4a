package source

import (
	"context"

	"github.com/japaniel/wkjlpt/pkg/jlpt"
	"github.com/japaniel/wkjlpt/pkg/reconcile"
)

// contentPOS are the IPA primary parts of speech worth studying.
var contentPOS = map[string]bool{
	"名詞":  true,
	"動詞":  true,
	"形容詞": true,
}

// skipSubPOS excludes numbers, pronouns, suffixes and dependent words.
var skipSubPOS = map[string]bool{
	"数":    true,
	"代名詞":  true,
	"接尾":   true,
	"非自立":  true,
	"固有名詞": true,
}

// IsStudyWord reports whether tok is a content word written with kanji.
func IsStudyWord(tok Token) bool {
	if !contentPOS[tok.PrimaryPOS] || skipSubPOS[tok.SubPOS()] {
		return false
	}
	return len(reconcile.Kanji(tok.BaseForm)) > 0
}

// Vocabulary tokenizes text on a pool of workers and returns one entry per
// distinct study word, in order of first appearance.
func (a *Analyzer) Vocabulary(ctx context.Context, text string, workers int) ([]jlpt.Entry, error) {
	sentences := splitSentences(text)
	results := make([][]Token, len(sentences))

	pool := NewWorkerPool(workers, workers*2)
	pool.Start(ctx)
	for i, s := range sentences {
		err := pool.Submit(ctx, func(ctx context.Context) error {
			results[i] = a.Analyze(s)
			return nil
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
	}
	pool.Close()
	if err := pool.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []jlpt.Entry
	for _, toks := range results {
		for _, tok := range toks {
			if !IsStudyWord(tok) || seen[tok.BaseForm] {
				continue
			}
			seen[tok.BaseForm] = true
			reading := ""
			if tok.Surface == tok.BaseForm {
				reading = reconcile.ToHiragana(tok.Reading)
			}
			out = append(out, jlpt.Entry{
				Slug:       tok.BaseForm,
				Normalized: tok.BaseForm,
				Japanese:   []jlpt.Japanese{{Word: tok.BaseForm, Reading: reading}},
				Senses:     []jlpt.Sense{{PartsOfSpeech: []string{tok.PrimaryPOS}}},
			})
		}
	}
	return out, nil
}
