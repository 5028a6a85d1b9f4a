package actions

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/wkjlpt/pkg/reconcile"
)

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// PromptConfirmer reads answers line by line from In.
type PromptConfirmer struct {
	In  *bufio.Reader
	Out io.Writer
}

// NewPromptConfirmer wraps r and w.
func NewPromptConfirmer(r io.Reader, w io.Writer) *PromptConfirmer {
	return &PromptConfirmer{In: bufio.NewReader(r), Out: w}
}

// Confirm prints prompt and accepts y/yes (any case). EOF counts as no.
func (c *PromptConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.Out, "%s [y/N] ", prompt)
	line, err := c.In.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// SelectAndStart shows each candidate and starts the ones the user confirms.
// It returns the candidates that were started.
func SelectAndStart(ctx context.Context, starter AssignmentStarter, candidates []reconcile.Candidate, confirm Confirmer, out io.Writer) ([]reconcile.Candidate, error) {
	var started []reconcile.Candidate
	for _, c := range candidates {
		s := c.Subject
		fmt.Fprintf(out, "%s  level %d  %s\n", s.Data.Characters, s.Data.Level, describe(c))
		ok, err := confirm.Confirm("Add to reviews?")
		if err != nil {
			return started, err
		}
		if !ok {
			continue
		}
		if _, err := starter.StartAssignment(ctx, c.Assignment.ID); err != nil {
			return started, err
		}
		started = append(started, c)
	}
	return started, nil
}

func describe(c reconcile.Candidate) string {
	var readings []string
	for _, r := range c.Subject.Data.Readings {
		readings = append(readings, r.Reading)
	}
	meaning := c.Subject.PrimaryMeaning()
	if len(readings) == 0 {
		return meaning
	}
	return fmt.Sprintf("%s [%s]", meaning, strings.Join(readings, ", "))
}
