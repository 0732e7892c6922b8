package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quickdraw/surpluslines/internal/config"
	"github.com/quickdraw/surpluslines/internal/estimator"
	"github.com/quickdraw/surpluslines/internal/pdftext"
	"github.com/quickdraw/surpluslines/internal/pipeline"
	"github.com/quickdraw/surpluslines/internal/stamping"
)

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "surpluslines",
		Short: "Stamp surplus lines transaction documents",
		Long: `surpluslines identifies the carrier of an insurance transaction PDF,
extracts the transaction fields, obtains tax and fee estimates for each
premium, and merges filled stamp pages into the document.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newStampCmd(&configPath, &verbose),
		newWatchCmd(&configPath, &verbose),
		newTemplatesCmd(&configPath, &verbose),
		newOutputCmd(&configPath, &verbose),
	)
	return cmd
}

func setup(configPath string, verbose bool) (*config.Config, *slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func buildPipeline(cfg *config.Config, producerName, outputDir string, decider pipeline.Decider, logger *slog.Logger) (*pipeline.Pipeline, error) {
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	producer, err := cfg.Producer(producerName)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Options{
		OutputDir: outputDir,
		Producer:  producer,
		Source:    pdftext.New(cfg.PDFToText, logger),
		Estimator: estimator.NewHTTPClient(cfg.Estimator.URL, cfg.Estimator.RequestsPerMinute, cfg.Estimator.TimeoutDuration(), logger),
		Assembler: stamping.NewPDFAssembler(cfg.StampTemplate, outputDir, logger),
		Decider:   decider,
		Logger:    logger,
	}), nil
}
