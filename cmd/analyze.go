package cmd

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/seqsense/plycrop/ply"
)

type fieldReport struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type analysisReport struct {
	Path     string        `yaml:"path"`
	Format   string        `yaml:"format,omitempty"`
	Version  string        `yaml:"version,omitempty"`
	Comments []string      `yaml:"comments,omitempty"`
	Vertices int           `yaml:"vertices"`
	Samples  int           `yaml:"samples"`
	Fields   []fieldReport `yaml:"fields"`
	Min      []float64     `yaml:"min,flow"`
	Max      []float64     `yaml:"max,flow"`
	Center   []float64     `yaml:"center,flow"`
	Extent   []float64     `yaml:"extent,flow"`
}

func newAnalysisReport(a *ply.Analysis) *analysisReport {
	b := a.Bounds
	center, extent := b.Center(), b.Extent()
	r := &analysisReport{
		Path:     a.Path,
		Format:   a.Format,
		Version:  a.Version,
		Comments: a.Comments,
		Vertices: a.Count,
		Samples:  b.Samples,
		Min:      b.Min[:],
		Max:      b.Max[:],
		Center:   center[:],
		Extent:   extent[:],
	}
	for _, f := range a.Fields {
		r.Fields = append(r.Fields, fieldReport{Name: f.Name, Type: f.Type.String()})
	}
	return r
}

func newAnalyzeCmd(o *rootOptions) *cobra.Command {
	var output string
	analyzeCmd := &cobra.Command{
		Use:   "analyze <input>",
		Short: "Estimate spatial bounds of a PLY file",
		Long: `Estimate spatial bounds from an evenly spaced sample of vertices:
  plycrop analyze scan.ply
  plycrop analyze scan.ply --sample-size 100000 --output yaml
  `,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sampleSize, err := o.intSetting(cmd, keySampleSize, "sample-size")
			if err != nil {
				return err
			}
			a, err := ply.Analyze(args[0], sampleSize)
			if err != nil {
				return err
			}
			switch output {
			case "text":
				printBounds(cmd.OutOrStdout(), a.Bounds)
				return nil
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(newAnalysisReport(a))
			default:
				return errors.Errorf("unknown output format %q", output)
			}
		},
	}
	analyzeCmd.Flags().Int("sample-size", ply.DefaultSampleSize, "maximum number of sampled vertices")
	analyzeCmd.Flags().StringVarP(&output, "output", "o", "text", "output format, text or yaml")
	return analyzeCmd
}

func printBounds(w io.Writer, b *ply.Bounds) {
	fmt.Fprintf(w, "Spatial analysis (from %d sample points):\n", b.Samples)
	extent, center := b.Extent(), b.Center()
	for i, name := range []string{"X", "Y", "Z"} {
		fmt.Fprintf(w, "%s range: [%.3f, %.3f] (range: %.3f)\n", name, b.Min[i], b.Max[i], extent[i])
	}
	fmt.Fprintf(w, "Center: (%.3f, %.3f, %.3f)\n", center[0], center[1], center[2])
}
