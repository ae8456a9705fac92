package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/valyala/fastrand"

	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/index"
)

type benchOptions struct {
	size   int
	lower  string
	upper  string
	random bool
	rounds int
}

func newBenchCommand() *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare the k-d tree against a linear scan",
		Long: "Builds a size x size point set, answers the same rectangle with the k-d tree\n" +
			"and a linear scan, checks both agree and prints the timings.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.size, "size", 1000, "Side of the generated point grid")
	cmd.Flags().StringVar(&opts.lower, "lower", "500,500", "Lower corner of the query rectangle")
	cmd.Flags().StringVar(&opts.upper, "upper", "504,504", "Upper corner of the query rectangle")
	cmd.Flags().BoolVar(&opts.random, "random", false, "Generate size*size random points instead of a grid")
	cmd.Flags().IntVar(&opts.rounds, "rounds", 10, "Number of timed queries per index")
	return cmd
}

func runBench(cmd *cobra.Command, opts *benchOptions) error {
	if opts.size <= 0 || opts.rounds <= 0 {
		return fmt.Errorf("expected positive --size and --rounds, got %d and %d", opts.size, opts.rounds)
	}
	rect, err := parseRectangle(opts.lower, opts.upper)
	if err != nil {
		return err
	}

	points := benchPoints(opts.size, opts.random)
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "points: %s, rectangle: %v\n", humanize.Comma(int64(len(points))), rect)

	var answers [][]geom.Point[float64]
	for _, alg := range []index.AlgType{index.AlgTypeBrute, index.AlgTypeKDTree} {
		idx, err := index.NewFor(alg)
		if err != nil {
			return err
		}
		start := time.Now()
		if err := idx.Build(points...); err != nil {
			return fmt.Errorf("build %s: %w", alg, err)
		}
		built := time.Since(start)

		var found []geom.Point[float64]
		start = time.Now()
		for i := 0; i < opts.rounds; i++ {
			found = idx.Range(rect)
		}
		perQuery := time.Since(start) / time.Duration(opts.rounds)

		_, _ = fmt.Fprintf(out, "%-8s build: %-12v query: %-12v found: %s\n",
			alg, built, perQuery, humanize.Comma(int64(len(found))))
		geom.SortPoints(found)
		answers = append(answers, found)
	}

	if diff := cmp.Diff(answers[0], answers[1]); diff != "" {
		return fmt.Errorf("k-d tree and linear scan disagree (-scan +tree):\n%s", diff)
	}
	_, _ = fmt.Fprintln(out, "results match")
	return nil
}

func benchPoints(size int, random bool) []geom.Point[float64] {
	points := make([]geom.Point[float64], 0, size*size)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if random {
				points = append(points, geom.NewPoint(float64(fastrand.Uint32n(uint32(size))), float64(fastrand.Uint32n(uint32(size)))))
				continue
			}
			points = append(points, geom.NewPoint(float64(x), float64(y)))
		}
	}
	return points
}
