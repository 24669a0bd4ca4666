package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"soundnorm-site/media"
)

// classifyOrFail resolves the type once; Unknown ends the command
func (ctx *commandContext) classifyOrFail(cmd *cobra.Command, path string) (media.FileType, error) {
	ft, err := ctx.pipeline.Classify(cmd.Context(), path)
	if err != nil {
		return ft, err
	}
	if ft == media.Unknown {
		return ft, fmt.Errorf("%w: %s has no audio or video track", media.ErrUnsupportedFileType, path)
	}
	return ft, nil
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "classify FILE...",
		Short: "Print whether each file is Audio, Video or Unknown",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args...)
			if err != nil {
				return err
			}
			for i, path := range paths {
				ft, err := ctx.pipeline.Classify(cmd.Context(), path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ft, args[i])
			}
			return nil
		},
	}
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Decode a file's audio and print its format and loudness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args[0])
			if err != nil {
				return err
			}
			path := paths[0]
			ft, err := ctx.classifyOrFail(cmd, path)
			if err != nil {
				return err
			}
			buf, err := ctx.pipeline.MaterializeAudio(cmd.Context(), path, ft)
			if err != nil {
				return err
			}
			st, err := os.Stat(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type:        %s\n", ft)
			fmt.Fprintf(out, "size:        %s\n", humanize.IBytes(uint64(st.Size())))
			fmt.Fprintf(out, "channels:    %d\n", buf.Channels())
			fmt.Fprintf(out, "sample rate: %d Hz\n", buf.SampleRate())
			fmt.Fprintf(out, "bit depth:   %d\n", buf.BitDepth())
			fmt.Fprintf(out, "duration:    %s\n", buf.Duration())
			fmt.Fprintf(out, "loudness:    %.2f dBFS\n", buf.DBFS())
			fmt.Fprintf(out, "peak:        %.2f dBFS\n", buf.MaxDBFS())
			return nil
		},
	}
}

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var threshold, ratio float64
	var output string
	cmd := &cobra.Command{
		Use:   "compress FILE",
		Short: "Apply dynamic range compression to a file's audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args[0])
			if err != nil {
				return err
			}
			path := paths[0]
			ft, err := ctx.classifyOrFail(cmd, path)
			if err != nil {
				return err
			}
			res, err := ctx.pipeline.CompressFile(cmd.Context(), path, ft, threshold, ratio)
			if err != nil {
				return err
			}
			return ctx.write(cmd, res, output)
		},
	}
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", -20, "Threshold in dBFS above which audio is compressed")
	cmd.Flags().Float64VarP(&ratio, "ratio", "r", 4, "Compression ratio, 1 leaves audio unchanged")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination (extension added when missing)")
	cmd.MarkFlagRequired("output")
	return cmd
}

func newTrimCommand(ctx *commandContext) *cobra.Command {
	var start, end float64
	var output string
	cmd := &cobra.Command{
		Use:   "trim FILE",
		Short: "Cut a file down to the range [start, end) in seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args[0])
			if err != nil {
				return err
			}
			path := paths[0]
			ft, err := ctx.classifyOrFail(cmd, path)
			if err != nil {
				return err
			}
			res, err := ctx.pipeline.Trim(cmd.Context(), path, ft, start, end)
			if err != nil {
				return err
			}
			return ctx.write(cmd, res, output)
		},
	}
	cmd.Flags().Float64Var(&start, "start", 0, "Start of the kept range in seconds")
	cmd.Flags().Float64Var(&end, "end", 0, "End of the kept range in seconds")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination (extension added when missing)")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("output")
	return cmd
}

func (ctx *commandContext) write(cmd *cobra.Command, res media.TransformResult, output string) error {
	dest, err := expandPaths(output)
	if err != nil {
		return err
	}
	written, err := ctx.pipeline.WriteResult(cmd.Context(), res, dest[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), written)
	return nil
}
