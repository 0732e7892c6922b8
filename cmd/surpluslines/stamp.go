package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quickdraw/surpluslines/internal/pipeline"
)

func newStampCmd(configPath *string, verbose *bool) *cobra.Command {
	var producerName string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "stamp <document.pdf>",
		Short: "Stamp a single transaction document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, *verbose)
			if err != nil {
				return err
			}
			p, err := buildPipeline(cfg, producerName, outputDir, promptDecider(cmd), logger)
			if err != nil {
				return err
			}

			outcome, err := p.Process(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			switch outcome.Status {
			case pipeline.StatusNotApplicable:
				fmt.Fprintln(cmd.OutOrStdout(), "surplus lines do not apply; no stamp produced")
			default:
				fmt.Fprintln(cmd.OutOrStdout(), outcome.ArtifactPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&producerName, "producer", "", "producer template name")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")
	return cmd
}

// promptDecider asks the operator whether to retry or withdraw when
// extraction fails recoverably.
func promptDecider(cmd *cobra.Command) pipeline.Decider {
	reader := bufio.NewReader(cmd.InOrStdin())
	return pipeline.DeciderFunc(func(ctx context.Context, err error) pipeline.Decision {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\nretry or cancel? [r/c]: ", err)
		line, readErr := reader.ReadString('\n')
		if readErr != nil {
			return pipeline.DecisionCancel
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "r") {
			return pipeline.DecisionRetry
		}
		return pipeline.DecisionCancel
	})
}
