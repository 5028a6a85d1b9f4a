package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/japaniel/wkjlpt/pkg/actions"
	"github.com/japaniel/wkjlpt/pkg/config"
	"github.com/japaniel/wkjlpt/pkg/db"
	"github.com/japaniel/wkjlpt/pkg/jlpt"
	"github.com/japaniel/wkjlpt/pkg/rank"
	"github.com/japaniel/wkjlpt/pkg/reconcile"
	"github.com/japaniel/wkjlpt/pkg/source"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

var errEmptyQuery = errors.New("provide at least one of --characters, --meaning or --reading")

func lessonAssignments(ctx context.Context, c *wanikani.Client) ([]wanikani.Assignment, error) {
	as, err := wanikani.Collect(c.Assignments(ctx, wanikani.AssignmentQuery{
		Unlocked:                       wanikani.Bool(true),
		ImmediatelyAvailableForLessons: wanikani.Bool(true),
	}))
	if err != nil {
		return nil, fmt.Errorf("fetch lesson assignments: %w", err)
	}
	return as, nil
}

func subjectsOf(ctx context.Context, c *wanikani.Client, types ...string) ([]wanikani.Subject, error) {
	ss, err := wanikani.Collect(c.Subjects(ctx, wanikani.SubjectQuery{Types: types}))
	if err != nil {
		return nil, fmt.Errorf("fetch %s subjects: %w", strings.Join(types, ","), err)
	}
	return ss, nil
}

func vocabSubjects(ctx context.Context, c *wanikani.Client) ([]wanikani.Subject, error) {
	return subjectsOf(ctx, c, wanikani.TypeVocabulary, wanikani.TypeKanaVocabulary)
}

func newMoveCmd(a *app) *cobra.Command {
	d := config.Default().Defaults
	var n, level int
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move JLPT vocabulary from lessons to reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n = intFlag(cmd, "number", n, a.cfg.Defaults.MoveCount)
			level = intFlag(cmd, "jlpt", level, a.cfg.Defaults.MoveJLPT)
			return a.runMove(cmd.Context(), n, level)
		},
	}
	cmd.Flags().IntVarP(&n, "number", "n", d.MoveCount, "number of items to move to review")
	cmd.Flags().IntVarP(&level, "jlpt", "j", d.MoveJLPT, "hardest JLPT level to include (5 = N5 only)")
	return cmd
}

func (a *app) runMove(ctx context.Context, n, level int) error {
	if n <= 0 {
		return actions.ErrInvalidCount
	}
	if err := checkLevel(level); err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	entries, err := jlpt.LoadTiers(a.cfg.Data.Dir, level)
	if err != nil {
		return err
	}

	assignments, err := lessonAssignments(ctx, client)
	if err != nil {
		return err
	}
	subjects, err := vocabSubjects(ctx, client)
	if err != nil {
		return err
	}
	candidates := reconcile.SelectPromotable(assignments, subjects, jlpt.Slugs(entries))
	a.logger.Info("promotable vocabulary",
		zap.Int("lessons", len(assignments)),
		zap.Int("candidates", len(candidates)),
		zap.Int("jlpt", level))

	p := &actions.Promoter{
		Starter: client,
		RunID:   uuid.NewString(),
		Out:     a.out,
		Logger:  a.logger,
	}
	ledger, err := a.ledger()
	if err != nil {
		return err
	}
	if ledger != nil {
		defer ledger.Close()
		p.Ledger = ledger
	}

	res, err := p.Promote(ctx, candidates, n)
	res.WriteSummary(a.out)
	if err != nil {
		return fmt.Errorf("move vocabulary to review: %w", err)
	}
	return nil
}

func newShowCmd(a *app) *cobra.Command {
	d := config.Default().Defaults
	var level int
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show JLPT vocabulary written only with kanji you have started",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level = intFlag(cmd, "jlpt", level, a.cfg.Defaults.ListJLPT)
			return a.runShow(cmd.Context(), level)
		},
	}
	cmd.Flags().IntVarP(&level, "jlpt", "j", d.ListJLPT, "hardest JLPT level to include")
	return cmd
}

func (a *app) runShow(ctx context.Context, level int) error {
	if err := checkLevel(level); err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	entries, err := jlpt.LoadTiers(a.cfg.Data.Dir, level)
	if err != nil {
		return err
	}

	started, err := wanikani.Collect(client.Assignments(ctx, wanikani.AssignmentQuery{Started: wanikani.Bool(true)}))
	if err != nil {
		return fmt.Errorf("fetch started assignments: %w", err)
	}
	kanji, err := subjectsOf(ctx, client, wanikani.TypeKanji)
	if err != nil {
		return err
	}
	vocab, err := vocabSubjects(ctx, client)
	if err != nil {
		return err
	}

	actions.WriteEntries(a.out, reconcile.SelectComprehensible(started, kanji, vocab, entries))
	return nil
}

func newVocabListCmd(a *app) *cobra.Command {
	d := config.Default().Defaults
	var (
		level   int
		workers int
		order   string
		pageURL string
	)
	cmd := &cobra.Command{
		Use:   "vocab-list",
		Short: "Print a study-ordered vocabulary list as slug,level lines",
		Long: `Ranks vocabulary for study: words WaniKani does not teach come first by
increasing kanji level, followed by WaniKani vocabulary. With --url the words
are extracted from a web article instead of the JLPT lists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level = intFlag(cmd, "jlpt", level, a.cfg.Defaults.ListJLPT)
			workers = intFlag(cmd, "workers", workers, a.cfg.Defaults.Workers)
			if !cmd.Flags().Changed("present-order") {
				order = a.cfg.Defaults.PresentOrder
			}
			return a.runVocabList(cmd.Context(), level, workers, order, pageURL)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&level, "jlpt", "j", d.ListJLPT, "hardest JLPT level to include")
	f.StringVar(&pageURL, "url", "", "rank the vocabulary of this article instead of the JLPT lists")
	f.IntVar(&workers, "workers", d.Workers, "tokenizer workers for --url")
	f.StringVar(&order, "present-order", d.PresentOrder, "order of WaniKani vocabulary by level: desc or asc")
	return cmd
}

func (a *app) runVocabList(ctx context.Context, level, workers int, orderName, pageURL string) error {
	order, err := rank.ParsePresentOrder(orderName)
	if err != nil {
		return err
	}
	if pageURL == "" {
		if err := checkLevel(level); err != nil {
			return err
		}
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	kanji, err := jlpt.LoadKanjiLevels(a.cfg.Data.KanjiPath())
	if err != nil {
		return err
	}

	var entries []jlpt.Entry
	if pageURL != "" {
		entries, err = a.articleVocabulary(ctx, pageURL, workers)
	} else {
		entries, err = jlpt.LoadTiers(a.cfg.Data.Dir, level)
	}
	if err != nil {
		return err
	}

	subjects, err := vocabSubjects(ctx, client)
	if err != nil {
		return err
	}
	items := rank.RankOrdered(entries, rank.ServiceVocab(subjects), kanji, order)
	a.logger.Debug("ranked vocabulary", zap.Int("items", len(items)), zap.Stringer("present_order", order))
	return rank.WriteCSV(a.out, items)
}

func (a *app) articleVocabulary(ctx context.Context, pageURL string, workers int) ([]jlpt.Entry, error) {
	f := source.NewFetcher()
	if a.httpClient != nil {
		f.HTTPClient = a.httpClient
	}
	art, err := f.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	an, err := source.NewAnalyzer()
	if err != nil {
		return nil, err
	}
	entries, err := an.Vocabulary(ctx, art.Text, workers)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", pageURL, err)
	}
	a.logger.Info("article analyzed",
		zap.String("url", pageURL),
		zap.String("title", art.Title),
		zap.Int("words", len(entries)))
	return entries, nil
}

func newSelectCmd(a *app) *cobra.Command {
	var q reconcile.Query
	cmd := &cobra.Command{
		Use:   "select [characters]",
		Short: "Search the lesson queue and start the vocabulary you confirm",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && q.Characters == "" {
				q.Characters = args[0]
			}
			return a.runSelect(cmd.Context(), q)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&q.Characters, "characters", "c", "", "substring of the vocabulary characters")
	f.StringVarP(&q.Meaning, "meaning", "m", "", "substring of a meaning, case-insensitive")
	f.StringVarP(&q.Reading, "reading", "r", "", "substring of a reading, kana of either script")
	return cmd
}

func (a *app) runSelect(ctx context.Context, q reconcile.Query) error {
	if q.Empty() {
		return errEmptyQuery
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	assignments, err := lessonAssignments(ctx, client)
	if err != nil {
		return err
	}
	subjects, err := vocabSubjects(ctx, client)
	if err != nil {
		return err
	}

	candidates := reconcile.SelectByQuery(assignments, subjects, q)
	if len(candidates) == 0 {
		fmt.Fprintln(a.out, "No matching vocabulary in the lesson queue")
		return nil
	}

	started, err := actions.SelectAndStart(ctx, client, candidates, actions.NewPromptConfirmer(a.in, a.out), a.out)
	a.recordStarted(started)
	fmt.Fprintf(a.out, "Started %d of %d\n", len(started), len(candidates))
	if err != nil {
		return fmt.Errorf("select vocabulary: %w", err)
	}
	return nil
}

// recordStarted appends interactively started assignments to the ledger.
func (a *app) recordStarted(started []reconcile.Candidate) {
	if len(started) == 0 {
		return
	}
	ledger, err := a.ledger()
	if err != nil {
		a.logger.Warn("ledger unavailable", zap.Error(err))
		return
	}
	if ledger == nil {
		return
	}
	defer ledger.Close()

	runID := uuid.NewString()
	for _, c := range started {
		if _, err := db.RecordPromotion(ledger, actions.NewPromotion(runID, c, time.Now())); err != nil {
			a.logger.Warn("failed to record promotion", zap.Int("assignment_id", c.Assignment.ID), zap.Error(err))
		}
	}
}
