package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/seed"
	"github.com/go-sod/rango/pkg/container/kdtree"
)

type queryOptions struct {
	file    string
	dataset string
	lower   string
	upper   string
}

func newQueryCommand() *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Answer a rectangle against a dataset of a seed file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "TOML seed file holding the datasets")
	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "Dataset name")
	cmd.Flags().StringVar(&opts.lower, "lower", "", "Lower corner of the query rectangle")
	cmd.Flags().StringVar(&opts.upper, "upper", "", "Upper corner of the query rectangle")
	for _, name := range []string{"file", "dataset", "lower", "upper"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runQuery(cmd *cobra.Command, opts *queryOptions) error {
	rect, err := parseRectangle(opts.lower, opts.upper)
	if err != nil {
		return err
	}
	f, err := seed.Decode(opts.file)
	if err != nil {
		return err
	}
	d, ok := f.Find(opts.dataset)
	if !ok {
		return fmt.Errorf("dataset %q not found in %s", opts.dataset, opts.file)
	}
	points, err := d.GeomPoints()
	if err != nil {
		return err
	}

	tree := kdtree.New[float64]()
	if err := tree.Build(points...); err != nil {
		return fmt.Errorf("build dataset %s: %w", opts.dataset, err)
	}
	found := tree.RangeSearch(rect)
	geom.SortPoints(found)

	out := cmd.OutOrStdout()
	for _, p := range found {
		_, _ = fmt.Fprintln(out, p)
	}
	_, _ = fmt.Fprintf(out, "%s of %s points inside %v\n",
		humanize.Comma(int64(len(found))), humanize.Comma(int64(tree.Len())), rect)
	return nil
}
