package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"soundnorm-site/ffmpeg"
	"soundnorm-site/media"
)

type commandContext struct {
	tempDir    string
	ffmpegBin  string
	ffprobeBin string
	verbose    bool

	pipeline *media.Pipeline
}

func (ctx *commandContext) setup(stderr io.Writer) error {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)
	if ctx.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if err := ffmpeg.Init(logger, ctx.ffmpegBin, ctx.ffprobeBin); err != nil {
		return err
	}
	if err := media.Init(logger); err != nil {
		return err
	}
	tempDir, err := homedir.Expand(ctx.tempDir)
	if err != nil {
		return err
	}
	ctx.pipeline = media.New(tempDir)
	return nil
}

// expandPaths resolves a leading ~ in each path
func expandPaths(paths ...string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		expanded, err := homedir.Expand(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		out[i] = expanded
	}
	return out, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}
	root := &cobra.Command{
		Use:           "soundnorm",
		Short:         "Compress and trim audio and video files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&ctx.tempDir, "temp-dir", os.TempDir(), "Directory for scratch files")
	root.PersistentFlags().StringVar(&ctx.ffmpegBin, "ffmpeg", "ffmpeg", "Path to the ffmpeg binary")
	root.PersistentFlags().StringVar(&ctx.ffprobeBin, "ffprobe", "ffprobe", "Path to the ffprobe binary")
	root.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Log pipeline steps to stderr")

	root.AddCommand(newClassifyCommand(ctx))
	root.AddCommand(newInfoCommand(ctx))
	root.AddCommand(newCompressCommand(ctx))
	root.AddCommand(newTrimCommand(ctx))
	return root
}
