package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/japaniel/wkjlpt/pkg/actions"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

func radicalMaterials(ctx context.Context, c *wanikani.Client) ([]wanikani.StudyMaterial, error) {
	ms, err := wanikani.Collect(c.StudyMaterials(ctx, wanikani.StudyMaterialQuery{
		SubjectTypes: []string{wanikani.TypeRadical},
	}))
	if err != nil {
		return nil, fmt.Errorf("fetch radical study materials: %w", err)
	}
	return ms, nil
}

func newRadicalsExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "radicals-export",
		Short: "Export radicals with their study materials and matching kanji as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRadicalsExport(cmd.Context(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func (a *app) runRadicalsExport(ctx context.Context, output string) (err error) {
	client, err := a.client()
	if err != nil {
		return err
	}
	materials, err := radicalMaterials(ctx, client)
	if err != nil {
		return err
	}
	kanji, err := subjectsOf(ctx, client, wanikani.TypeKanji)
	if err != nil {
		return err
	}
	radicals, err := subjectsOf(ctx, client, wanikani.TypeRadical)
	if err != nil {
		return err
	}
	docs := actions.ExportRadicals(radicals, kanji, materials)

	if output == "" {
		return actions.WriteYAML(a.out, docs)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := actions.WriteYAML(f, docs); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(a.out, "Exported %d radicals to %s\n", len(docs), output)
	return nil
}

func newRadicalsSyncCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "radicals-sync",
		Short: "Push edited radical study materials from a YAML export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRadicalsSync(cmd.Context(), file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file produced by radicals-export")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) runRadicalsSync(ctx context.Context, file string) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	docs, err := actions.ReadYAML(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}

	existing, err := radicalMaterials(ctx, client)
	if err != nil {
		return err
	}
	res, err := actions.SyncRadicals(ctx, client, docs, existing, a.logger)
	fmt.Fprintf(a.out, "Study materials created: %d, updated: %d, unchanged: %d\n", res.Created, res.Updated, res.Unchanged)
	if err != nil {
		return fmt.Errorf("sync study materials: %w", err)
	}
	return nil
}
