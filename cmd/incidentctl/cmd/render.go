package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
	"github.com/ashokkumar81090/Hackathon/internal/preprocess"
	answeruc "github.com/ashokkumar81090/Hackathon/internal/usecase/answer"
	ingestuc "github.com/ashokkumar81090/Hackathon/internal/usecase/ingest"
	searchuc "github.com/ashokkumar81090/Hackathon/internal/usecase/search"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	idColor     = color.New(color.FgYellow, color.Bold)
	scoreColor  = color.New(color.FgGreen)
	dimColor    = color.New(color.Faint)
	warnColor   = color.New(color.FgRed)
)

func checkFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown format %q (supported: text, json)", format)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderQuery(w io.Writer, q preprocess.Query) {
	_, _ = headerColor.Fprintln(w, "Preprocessing")
	fmt.Fprintln(w, preprocess.Summary(q))
}

func renderResults(w io.Writer, results []result.Ranked) {
	if len(results) == 0 {
		_, _ = dimColor.Fprintln(w, "No matching incidents.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%2d. %s  %s  %s\n", i+1,
			idColor.Sprint(r.RecordID),
			scoreColor.Sprintf("%.4f", r.Score),
			dimColor.Sprintf("[%s]", r.MatchType))
		fmt.Fprintf(w, "    %s\n", r.Summary)
		var meta []string
		for _, kv := range [][2]string{
			{"status", r.Fields.Status},
			{"priority", r.Fields.Priority},
			{"category", r.Fields.Category},
		} {
			if kv[1] != "" {
				meta = append(meta, kv[0]+"="+kv[1])
			}
		}
		if len(meta) > 0 {
			_, _ = dimColor.Fprintf(w, "    %s\n", strings.Join(meta, "  "))
		}
		if r.Fields.RootCause != "" {
			fmt.Fprintf(w, "    root cause: %s\n", r.Fields.RootCause)
		}
	}
}

func renderEngine(w io.Writer, name string, results []result.Ranked) {
	_, _ = headerColor.Fprintf(w, "%s engine\n", name)
	if len(results) == 0 {
		_, _ = dimColor.Fprintln(w, "  (no hits)")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "  %2d. %-12s %8.4f  %s\n", i+1, r.RecordID, r.Score, dimColor.Sprint(r.Fields.Status))
	}
}

func renderWeights(w io.Writer, cur searchuc.Weights) {
	fmt.Fprintf(w, "vector_weight:  %g\nkeyword_weight: %g\n", cur.Vector, cur.Keyword)
	if msg := cur.SumWarning(); msg != "" {
		_, _ = warnColor.Fprintf(w, "warning: %s\n", msg)
	}
}

func renderAnswer(w io.Writer, res *answeruc.Result) {
	_, _ = headerColor.Fprintln(w, "Answer")
	fmt.Fprintln(w, res.Answer)
	fmt.Fprintln(w)

	if rec := res.Recommendations; rec != nil {
		_, _ = headerColor.Fprintf(w, "Recommendations (%s priority)\n", rec.Priority)
		fmt.Fprintln(w, rec.Summary)
		for _, section := range []struct {
			title string
			items []string
		}{
			{"Key steps", rec.KeySteps},
			{"Best practices", rec.BestPractices},
			{"Preventive measures", rec.PreventiveMeasures},
		} {
			if len(section.items) == 0 {
				continue
			}
			fmt.Fprintf(w, "%s:\n", section.title)
			for _, item := range section.items {
				fmt.Fprintf(w, "  - %s\n", item)
			}
		}
		fmt.Fprintln(w)
	}

	_, _ = headerColor.Fprintln(w, "Relevant incidents")
	renderResults(w, res.RelevantIncidents)
	_, _ = dimColor.Fprintf(w, "\n%s via %s in %s (trace %s)\n",
		res.Metadata.Model, res.Metadata.SearchMethod, res.Metadata.ProcessingTime.Round(time.Millisecond), res.Metadata.TraceID)
}

func renderReport(w io.Writer, rep ingestuc.Report) {
	_, _ = headerColor.Fprintln(w, "Ingestion report")
	fmt.Fprintf(w, "  received:  %d\n  valid:     %d\n  ingested:  %d\n", rep.Received, rep.Valid, rep.Ingested)
	if rep.Cleared > 0 {
		fmt.Fprintf(w, "  cleared:   %d\n", rep.Cleared)
	}
	fmt.Fprintf(w, "  batches:   %d (%d failed)\n  indexed:   %d\n  duration:  %s\n",
		rep.Batches, rep.FailedBatches, rep.TotalIndexed, rep.Duration.Round(time.Millisecond))
	if rep.Failed > 0 {
		_, _ = warnColor.Fprintf(w, "  failed:    %d incidents\n", rep.Failed)
	}
	for _, s := range rep.Skipped {
		_, _ = warnColor.Fprintf(w, "  skipped #%d %s: %s\n", s.Index, s.IncidentID, s.Reason)
	}
}
