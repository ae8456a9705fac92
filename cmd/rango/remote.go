package main

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/go-sod/rango/internal/client"
	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/seed"
)

// newClient reads the client config from the environment, flags set on cmd
// take precedence.
func newClient(cmd *cobra.Command) (*client.Client, error) {
	var cfg client.Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
		cfg.Addr = addr
	}
	if token, _ := cmd.Flags().GetString("token"); cmd.Flags().Changed("token") {
		cfg.AuthToken = token
	}
	return client.New(cfg)
}

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", "", "Server address, overrides RANGO_CLIENT_ADDR")
	cmd.Flags().String("token", "", "Bearer token, overrides RANGO_AUTH_TOKEN")
}

func newPushCommand() *cobra.Command {
	var file, dataset string
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload the datasets of a seed file to a server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			f, err := seed.Decode(file)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			for _, d := range f.Datasets {
				if dataset != "" && d.Name != dataset {
					continue
				}
				points, err := d.GeomPoints()
				if err != nil {
					return err
				}
				stats, err := c.PutDataset(ctx, d.Name, points)
				if err != nil {
					return fmt.Errorf("push dataset %s: %w", d.Name, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d points, revision %s\n", stats.Name, stats.Len, stats.Revision)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "TOML seed file holding the datasets")
	cmd.Flags().StringVar(&dataset, "dataset", "", "Push only this dataset")
	_ = cmd.MarkFlagRequired("file")
	addClientFlags(cmd)
	return cmd
}

func newRangeCommand() *cobra.Command {
	var (
		dataset, lower, upper string
		countOnly             bool
	)
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Answer a rectangle against a dataset served by a server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rect, err := parseRectangle(lower, upper)
			if err != nil {
				return err
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			results, err := c.Range(ctx, dataset, countOnly, rect)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			points := results[0].Points
			geom.SortPoints(points)
			for _, p := range points {
				_, _ = fmt.Fprintln(out, p)
			}
			_, _ = fmt.Fprintf(out, "%d points inside %v\n", results[0].Count, rect)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset name")
	cmd.Flags().StringVar(&lower, "lower", "", "Lower corner of the query rectangle")
	cmd.Flags().StringVar(&upper, "upper", "", "Upper corner of the query rectangle")
	cmd.Flags().BoolVar(&countOnly, "count", false, "Print the number of points only")
	for _, name := range []string{"dataset", "lower", "upper"} {
		_ = cmd.MarkFlagRequired(name)
	}
	addClientFlags(cmd)
	return cmd
}
