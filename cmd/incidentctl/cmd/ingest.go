package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ashokkumar81090/Hackathon/internal/domain/incident"
	ingestuc "github.com/ashokkumar81090/Hackathon/internal/usecase/ingest"
)

func newIngestCmd(c *cli) *cobra.Command {
	var (
		clearExisting bool
		batchSize     int
		format        string
	)

	cmd := &cobra.Command{
		Use:   "ingest <file.json>",
		Short: "Embed and index incidents from a JSON array",
		Long: `Reads a JSON array of incidents, validates them, embeds each in batches
and stores them in the index. Invalid incidents are skipped and reported.

Examples:
  incidentctl ingest data/incidents.json
  incidentctl ingest data/incidents.json --clear --batch-size 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			incidents, err := readIncidents(args[0])
			if err != nil {
				return err
			}

			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if batchSize <= 0 {
				batchSize = a.Config.Ingest.BatchSize
			}
			rep, err := a.Ingest.Ingest(cmd.Context(), incidents, ingestuc.Options{
				ClearExisting: clearExisting,
				BatchSize:     batchSize,
			})
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			renderReport(cmd.OutOrStdout(), rep)
			if rep.FailedBatches > 0 {
				return fmt.Errorf("%d of %d batches failed", rep.FailedBatches, rep.Batches)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearExisting, "clear", false, "Delete existing incidents first")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Incidents per embedding batch (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json")
	return cmd
}

func readIncidents(path string) ([]incident.Incident, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read incidents: %w", err)
	}
	var incidents []incident.Incident
	if err := json.Unmarshal(data, &incidents); err != nil {
		return nil, fmt.Errorf("parse %s: expected a JSON array of incidents: %w", path, err)
	}
	if len(incidents) == 0 {
		return nil, fmt.Errorf("%s contains no incidents", path)
	}
	return incidents, nil
}
