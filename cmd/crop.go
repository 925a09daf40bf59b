package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/magneticio/go-common/logging"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/seqsense/plycrop/ply"
)

type cropFlags struct {
	min, max    [3]float64
	centerCrop  float64
	interactive bool
}

var axisFlags = [3]string{"x", "y", "z"}

// ranges returns the explicit ranges. Each --?-min requires its --?-max.
func (f *cropFlags) ranges(fs *pflag.FlagSet) (ply.Ranges, error) {
	var rs ply.Ranges
	for i, a := range axisFlags {
		hasMin, hasMax := fs.Changed(a+"-min"), fs.Changed(a+"-max")
		if hasMin != hasMax {
			return rs, errors.Errorf("both --%s-min and --%s-max must be specified", a, a)
		}
		if hasMin {
			rs[i] = &ply.Interval{Low: f.min[i], High: f.max[i]}
		}
	}
	return rs, nil
}

func (f *cropFlags) options(fs *pflag.FlagSet) (ply.CropOptions, error) {
	rs, err := f.ranges(fs)
	if err != nil {
		return ply.CropOptions{}, err
	}
	hasRanges := rs[0] != nil || rs[1] != nil || rs[2] != nil
	hasCenter := fs.Changed("center-crop")
	switch {
	case hasCenter && f.interactive:
		return ply.CropOptions{}, errors.New("--center-crop and --interactive are mutually exclusive")
	case (hasCenter || f.interactive) && hasRanges:
		return ply.CropOptions{}, errors.New("explicit ranges can not be combined with --center-crop or --interactive")
	case hasCenter && !(f.centerCrop > 0 && f.centerCrop <= 1):
		return ply.CropOptions{}, errors.Wrapf(ply.ErrInvalidRatio, "%v", f.centerCrop)
	}
	opts := ply.CropOptions{
		Ranges:  rs,
		Suggest: f.interactive,
	}
	if hasCenter {
		opts.CenterRatio = f.centerCrop
	}
	return opts, nil
}

func newCropCmd(o *rootOptions) *cobra.Command {
	f := &cropFlags{}
	cropCmd := &cobra.Command{
		Use:   "crop <input> <output>",
		Short: "Remove points outside of X, Y, Z ranges",
		Long: `Remove points outside of X, Y, Z ranges:
  plycrop crop in.ply out.ply --x-min -1 --x-max 1 --z-min 0 --z-max 2
  plycrop crop in.ply out.ply --center-crop 0.8
  plycrop crop in.ply out.ply --interactive
Axes without a range keep the sampled bounds.
  `,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd.Flags())
			if err != nil {
				return err
			}
			if opts.SampleSize, err = o.intSetting(cmd, keySampleSize, "sample-size"); err != nil {
				return err
			}
			if opts.ChunkSize, err = o.intSetting(cmd, keyChunkSize, "chunk-size"); err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return runCrop(ctx, cmd, args[0], args[1], opts)
		},
	}
	fl := cropCmd.Flags()
	for i, a := range axisFlags {
		fl.Float64Var(&f.min[i], a+"-min", 0, "minimum "+a+" coordinate")
		fl.Float64Var(&f.max[i], a+"-max", 0, "maximum "+a+" coordinate")
	}
	fl.Float64Var(&f.centerCrop, "center-crop", 0, "crop around center with the given ratio of the sampled extent (e.g. 0.8)")
	fl.BoolVar(&f.interactive, "interactive", false, "crop to the suggested ranges, 10% trimmed from each side")
	fl.Int("sample-size", ply.DefaultSampleSize, "maximum number of sampled vertices for bounds estimation")
	fl.Int("chunk-size", ply.DefaultChunkSize, "number of vertices processed per chunk")
	return cropCmd
}

func runCrop(ctx context.Context, cmd *cobra.Command, input, output string, opts ply.CropOptions) error {
	w := cmd.OutOrStdout()
	runID := ksuid.New()
	logging.Info("[%s] Cropping %s to %s\n", runID, input, output)

	opts.Progress = func(processed, retained, total int) {
		var pct float64
		if total > 0 {
			pct = float64(processed) / float64(total) * 100
		}
		logging.Info("[%s] Processed %d/%d vertices (%.1f%%) - kept %d so far\n", runID, processed, total, pct, retained)
	}

	stats, err := ply.Crop(ctx, input, output, opts)
	if stats != nil {
		if stats.Bounds != nil {
			printBounds(w, stats.Bounds)
		}
		if opts.Suggest {
			fmt.Fprintln(w, "Using suggested ranges:")
		} else if opts.CenterRatio != 0 {
			fmt.Fprintf(w, "Using center crop with %.1f%% of original size:\n", opts.CenterRatio*100)
		}
		fmt.Fprintln(w, "Cropping to bounds:")
		for _, line := range stats.Box.Describe() {
			fmt.Fprintln(w, line)
		}
	}
	if err != nil {
		logging.Error("[%s] Crop failed: %v\n", runID, err)
		return err
	}

	fmt.Fprintln(w, "Cropping results:")
	fmt.Fprintf(w, "Original vertices: %d\n", stats.Original)
	fmt.Fprintf(w, "Cropped vertices: %d\n", stats.Retained)
	if stats.Original > 0 {
		kept := float64(stats.Retained) / float64(stats.Original) * 100
		fmt.Fprintf(w, "Reduction: %.1f%%\n", 100-kept)
		fmt.Fprintf(w, "Kept: %.1f%%\n", kept)
	}
	fmt.Fprintf(w, "Output saved to: %s\n", output)
	return nil
}
