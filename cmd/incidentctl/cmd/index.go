package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the incident index",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the incident index if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.Incidents.EnsureIndex(cmd.Context())
			if err != nil {
				return err
			}
			name := a.Incidents.Schema().IndexName
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created index %s\n", name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Index %s already exists\n", name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "drop",
		Short: "Drop the incident index (stored incidents are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Incidents.DropIndex(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped index %s\n", a.Incidents.Schema().IndexName)
			return nil
		},
	})

	return cmd
}

func newStatsCmd(c *cli) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index size, layout and hybrid weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			count, err := a.Incidents.Count(cmd.Context())
			if err != nil {
				return err
			}
			schema := a.Incidents.Schema()
			w := cmd.OutOrStdout()
			if format == formatJSON {
				return writeJSON(w, map[string]any{
					"totalIncidents": count,
					"indexName":      schema.IndexName,
					"keyPrefix":      schema.KeyPrefix,
					"dimensions":     schema.Dimensions,
					"weights":        a.Weights.Load(),
				})
			}
			_, _ = headerColor.Fprintln(w, "Index")
			fmt.Fprintf(w, "  name:       %s\n  key prefix: %s\n  dimensions: %d\n  incidents:  %d\n",
				schema.IndexName, schema.KeyPrefix, schema.Dimensions, count)
			_, _ = headerColor.Fprintln(w, "Weights")
			renderWeights(w, a.Weights.Load())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json")
	return cmd
}
