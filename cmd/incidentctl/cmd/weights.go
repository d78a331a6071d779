package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	searchuc "github.com/ashokkumar81090/Hackathon/internal/usecase/search"
)

func newWeightsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Show or change the hybrid fusion weights",
	}

	var format string
	get := &cobra.Command{
		Use:   "get",
		Short: "Show the configured weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			w := searchuc.Weights{Vector: c.cfg.Search.VectorWeight, Keyword: c.cfg.Search.KeywordWeight}
			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"vectorWeight":  w.Vector,
					"keywordWeight": w.Keyword,
					"warning":       w.SumWarning(),
				})
			}
			renderWeights(cmd.OutOrStdout(), w)
			return nil
		},
	}
	get.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json")

	set := &cobra.Command{
		Use:   "set <vector> <keyword>",
		Short: "Write new weights to the config file",
		Long: `Updates search.vector_weight and search.keyword_weight in the config file.
A running server watching the file picks the change up without a restart.

Example:
  incidentctl weights set 0.7 0.3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var w searchuc.Weights
			var err error
			if w.Vector, err = strconv.ParseFloat(args[0], 64); err != nil {
				return fmt.Errorf("vector weight: %w", err)
			}
			if w.Keyword, err = strconv.ParseFloat(args[1], 64); err != nil {
				return fmt.Errorf("keyword weight: %w", err)
			}
			if err := w.Validate(); err != nil {
				return err
			}
			if err := writeWeights(c.configPath, w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", c.configPath)
			renderWeights(cmd.OutOrStdout(), w)
			return nil
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}

// writeWeights edits the two weight keys in place, leaving the rest of the
// document (comments and ${VAR} references included) untouched.
func writeWeights(path string, w searchuc.Weights) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config %s: top level is not a mapping", path)
	}

	search := mappingChild(doc.Content[0], "search")
	setScalar(search, "vector_weight", strconv.FormatFloat(w.Vector, 'g', -1, 64))
	setScalar(search, "keyword_weight", strconv.FormatFloat(w.Keyword, 'g', -1, 64))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

// mappingChild returns the mapping under key, creating it when absent.
func mappingChild(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key && m.Content[i+1].Kind == yaml.MappingNode {
			return m.Content[i+1]
		}
	}
	child := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		child,
	)
	return child
}

func setScalar(m *yaml.Node, key, value string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			v := m.Content[i+1]
			v.Kind, v.Tag, v.Value, v.Style = yaml.ScalarNode, "!!float", value, 0
			v.Content = nil
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: value},
	)
}

// writeFileAtomic replaces path via a temp file in the same directory, so a
// watcher never reads a half-written file.
func writeFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
