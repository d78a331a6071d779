package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashokkumar81090/Hackathon/internal/app"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/filter"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/request"
)

// searchFlags are shared by search and ask.
type searchFlags struct {
	mode       string
	topK       int
	format     string
	incidentID string
	category   string
	status     string
	priority   string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", string(mode.Hybrid), "Search mode: keyword, vector, hybrid")
	cmd.Flags().IntVarP(&f.topK, "top-k", "k", 0, "Number of results (default from config)")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatText, "Output format: text, json")
	cmd.Flags().StringVar(&f.incidentID, "incident-id", "", "Filter by incident id")
	cmd.Flags().StringVar(&f.category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&f.status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Filter by priority")
}

func (f *searchFlags) request(query string, lim request.Limits) (request.Request, error) {
	if err := checkFormat(f.format); err != nil {
		return request.Request{}, err
	}
	m, err := mode.Parse(f.mode)
	if err != nil {
		return request.Request{}, err
	}
	return request.NewWithLimits(query, m, f.topK,
		filter.New(f.incidentID, f.category, f.status, f.priority), lim)
}

func newSearchCmd(c *cli) *cobra.Command {
	var (
		flags   searchFlags
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search past incidents",
		Long: `Searches the incident index with keyword (BM25), vector (KNN) or hybrid
retrieval. Hybrid mode fuses both engines and keeps resolved incidents only.

Examples:
  incidentctl search "vpn keeps disconnecting"
  incidentctl search outlook crash -m keyword -k 10
  incidentctl search "db timeout" --explain`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			req, err := flags.request(strings.Join(args, " "), a.Limits())
			if err != nil {
				return err
			}
			resp, err := a.Search.Search(cmd.Context(), req)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if flags.format == formatJSON {
				return writeJSON(w, map[string]any{
					"query":            resp.Query.Original,
					"searchOptimized":  resp.Query.SearchOptimized,
					"expansions":       resp.Query.Expansions,
					"searchType":       resp.Mode,
					"results":          resp.Results,
					"resultCount":      len(resp.Results),
					"processingTimeMs": resp.Trace.Elapsed.Milliseconds(),
					"traceId":          resp.Trace.ID,
				})
			}

			if explain {
				renderQuery(w, resp.Query)
				if resp.Mode == mode.Hybrid {
					_, _ = headerColor.Fprintln(w, "Weights")
					renderWeights(w, a.Weights.Load())
					if err := explainEngines(cmd, a, req, w); err != nil {
						return err
					}
				}
				fmt.Fprintln(w)
			}
			_, _ = headerColor.Fprintf(w, "Results (%s, %d)\n", resp.Mode, len(resp.Results))
			renderResults(w, resp.Results)
			_, _ = dimColor.Fprintf(w, "\ntrace %s in %s\n", resp.Trace.ID, resp.Trace.Elapsed.Round(time.Microsecond))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&explain, "explain", false, "Show preprocessing, weights and per-engine hits")
	return cmd
}

// explainEngines reruns the request against each engine alone so the fused
// ranking can be compared with its inputs.
func explainEngines(cmd *cobra.Command, a *app.App, req request.Request, w io.Writer) error {
	for _, m := range []mode.Mode{mode.Keyword, mode.Vector} {
		single, err := request.NewWithLimits(req.Query(), m, req.TopK(), req.Filters(), a.Limits())
		if err != nil {
			return err
		}
		resp, err := a.Search.Search(cmd.Context(), single)
		if err != nil {
			return fmt.Errorf("%s engine: %w", m, err)
		}
		renderEngine(w, string(m), resp.Results)
	}
	return nil
}

func newAskCmd(c *cli) *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from similar past incidents",
		Long: `Retrieves the most relevant incidents and asks the chat model for an
answer grounded in them, plus structured recommendations.

Examples:
  incidentctl ask "how do I fix vpn drops on wifi?"
  incidentctl ask "printer offline" -k 3 -f json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			req, err := flags.request(strings.Join(args, " "), a.Limits())
			if err != nil {
				return err
			}
			res, err := a.Answer.Ask(cmd.Context(), req)
			if err != nil {
				return err
			}

			if flags.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"query":             res.Query,
					"searchOptimized":   res.Processed.SearchOptimized,
					"answer":            res.Answer,
					"relevantIncidents": res.RelevantIncidents,
					"recommendations":   res.Recommendations,
					"metadata":          res.Metadata,
				})
			}
			renderAnswer(cmd.OutOrStdout(), res)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
