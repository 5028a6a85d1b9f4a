package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/japaniel/wkjlpt/pkg/actions"
	"github.com/japaniel/wkjlpt/pkg/db"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

var errLedgerDisabled = errors.New("promotion ledger is disabled in the config file")

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count unlocked assignments per SRS stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStats(cmd.Context())
		},
	}
}

func (a *app) runStats(ctx context.Context) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	as, err := wanikani.Collect(client.Assignments(ctx, wanikani.AssignmentQuery{Unlocked: wanikani.Bool(true)}))
	if err != nil {
		return fmt.Errorf("fetch assignments: %w", err)
	}
	actions.WriteStageReport(a.out, actions.CountBySRSStage(as))
	return nil
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		f     db.PromotionFilter
		since string
		byRun bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List promotions recorded by move and select",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if since != "" {
				t, err := time.ParseInLocation(time.DateOnly, since, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --since %q: want YYYY-MM-DD", since)
				}
				f.Since = t
			}
			return a.runHistory(f, byRun)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.RunID, "run", "", "only this run id")
	fl.IntVar(&f.MinLevel, "min-level", 0, "minimum subject level")
	fl.IntVar(&f.MaxLevel, "max-level", 0, "maximum subject level")
	fl.StringVar(&since, "since", "", "only promotions on or after this date (YYYY-MM-DD)")
	fl.Uint64Var(&f.Limit, "limit", 50, "maximum rows, 0 for all")
	fl.BoolVar(&byRun, "by-run", false, "summarize counts per run instead")
	return cmd
}

func (a *app) runHistory(f db.PromotionFilter, byRun bool) error {
	ledger, err := a.ledger()
	if err != nil {
		return err
	}
	if ledger == nil {
		return errLedgerDisabled
	}
	defer ledger.Close()

	if byRun {
		counts, err := db.CountByRun(ledger)
		if err != nil {
			return err
		}
		for _, run := range slices.Sorted(maps.Keys(counts)) {
			fmt.Fprintf(a.out, "%s %d\n", run, counts[run])
		}
		return nil
	}

	ps, err := db.ListPromotions(ledger, f)
	if err != nil {
		return err
	}
	for _, p := range ps {
		fmt.Fprintf(a.out, "%s  %s  %s (Level %d)\n",
			p.MovedAt.Local().Format(time.DateTime), p.RunID, p.Characters, p.Level)
	}
	return nil
}
