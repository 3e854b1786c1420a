// Package cli implements the groupgraph command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"srm-backend/application/queries"
	"srm-backend/domain/core/aggregates"
	"srm-backend/domain/core/valueobjects"
	domainservices "srm-backend/domain/services"
	"srm-backend/infrastructure/loaders"
)

// options are the flags shared by every subcommand
type options struct {
	input      string
	format     string
	directed   bool
	pretty     bool
	minNumbers int
	maxNumbers int
	numbers    []int
}

// NewRootCommand creates the groupgraph root command
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "groupgraph",
		Short: "Discover shared-number groups in a membership matrix",
		Long: `groupgraph reads an item × user membership matrix (JSON, xlsx or csv)
and prints the groups of two or more item numbers shared by pairs of users,
together with the overlaps between groups.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.input, "input", "i", "-", "matrix file, or - for stdin")
	flags.StringVarP(&opts.format, "format", "f", "auto", "matrix format: auto, json, xlsx or csv")
	flags.BoolVar(&opts.directed, "directed", false, "emit an edge in both directions for every overlap")
	flags.BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	flags.IntVar(&opts.minNumbers, "min-numbers", 0, "hide groups with fewer numbers")
	flags.IntVar(&opts.maxNumbers, "max-numbers", 0, "hide groups with more numbers (0 for no limit)")
	flags.IntSliceVar(&opts.numbers, "numbers", nil, "show only groups holding any of these numbers")

	root.AddCommand(
		newTransformCommand(opts),
		newHeatmapCommand(opts),
		newEulerCommand(opts),
	)
	return root
}

func newTransformCommand(opts *options) *cobra.Command {
	var legacy bool
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Print the group graph",
		Example: `  # Graph from a spreadsheet export
  groupgraph transform -i data.xlsx --pretty

  # Original {nodes, links} document from stdin
  cat data.json | groupgraph transform --legacy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			graph, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			result := queries.NewGraphDataResult(graph)
			if legacy {
				return opts.write(cmd.OutOrStdout(), map[string]interface{}{
					"nodes": result.Nodes,
					"links": result.Edges,
				})
			}
			return opts.write(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().BoolVar(&legacy, "legacy", false, "print {nodes, links} instead of the full result")
	return cmd
}

func newHeatmapCommand(opts *options) *cobra.Command {
	var maxNumber int
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Print the group × number grid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			graph, matrix, err := opts.load(cmd)
			if err != nil {
				return err
			}
			axis := maxNumber
			if axis == 0 {
				axis = matrix.ItemCount()
			}
			return opts.write(cmd.OutOrStdout(), domainservices.BuildHeatmap(graph, axis))
		},
	}
	cmd.Flags().IntVar(&maxNumber, "max-number", 0, "length of the number axis (defaults to the item count)")
	return cmd
}

func newEulerCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "euler",
		Short: "Print Euler/Venn set and overlap areas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			graph, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return opts.write(cmd.OutOrStdout(), domainservices.BuildEuler(graph))
		},
	}
}

func (o *options) load(cmd *cobra.Command) (*aggregates.GroupGraph, *valueobjects.BinaryMatrix, error) {
	format, err := loaders.ParseFormat(o.format)
	if err != nil {
		return nil, nil, err
	}

	var r io.Reader
	if o.input == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(o.input)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		r = f
		if format == loaders.FormatAuto {
			format = loaders.DetectFormat(o.input, "")
		}
	}

	matrix, err := loaders.Decode(r, format)
	if err != nil {
		return nil, nil, err
	}

	policy := aggregates.EdgesUndirected
	if o.directed {
		policy = aggregates.EdgesDirected
	}
	graph, err := domainservices.NewGroupDiscovery(policy).Transform(matrix)
	if err != nil {
		return nil, nil, err
	}

	filter := domainservices.VisibilityFilter{
		MinNumbers: o.minNumbers,
		MaxNumbers: o.maxNumbers,
		Selected:   valueobjects.NewNumberSet(o.numbers...),
	}
	return domainservices.ApplyFilter(graph, filter), matrix, nil
}

func (o *options) write(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
