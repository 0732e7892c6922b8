package main

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/quickdraw/surpluslines/internal/pipeline"
	"github.com/quickdraw/surpluslines/pkg/lifecycle"
)

// settleDelay gives whoever dropped the file a moment to finish writing
// before the run starts reading it.
const settleDelay = 500 * time.Millisecond

// drainTimeout bounds how long shutdown waits for in-flight runs; each run
// may hold several rate-limited estimator round trips.
const drainTimeout = 5 * time.Minute

func newWatchCmd(configPath *string, verbose *bool) *cobra.Command {
	var producerName string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the inbox directory and stamp every dropped document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, *verbose)
			if err != nil {
				return err
			}
			if cfg.Inbox == "" {
				return errors.New("no inbox directory configured")
			}
			// Unattended daemon: recoverable failures withdraw the document.
			p, err := buildPipeline(cfg, producerName, "", pipeline.CancelAlways, logger)
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()
			if err := watcher.Add(cfg.Inbox); err != nil {
				return err
			}

			dispatcher := pipeline.NewDispatcher(p, settleDelay, func(result pipeline.Result) {
				switch {
				case result.Err != nil:
					logger.Error("run failed", "document", result.Path, "error", result.Err)
				case result.Outcome.Status == pipeline.StatusNotApplicable:
					logger.Info("surplus lines not applicable", "document", result.Path)
				default:
					logger.Info("stamped", "document", result.Path, "artifact", result.Outcome.ArtifactPath)
				}
			}, logger)

			coordinator := lifecycle.NewWithSignals()
			ctx := coordinator.Context()
			coordinator.OnShutdown(func() {
				<-ctx.Done()
				dispatcher.Wait()
			})
			logger.Info("watching inbox", "dir", cfg.Inbox)

			for {
				select {
				case <-ctx.Done():
					logger.Info("draining in-flight runs")
					return coordinator.Shutdown(drainTimeout)
				case event, ok := <-watcher.Events:
					if !ok {
						return coordinator.Shutdown(drainTimeout)
					}
					if !event.Has(fsnotify.Create) {
						continue
					}
					if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
						continue
					}
					dispatcher.Dispatch(ctx, event.Name)
				case watchErr, ok := <-watcher.Errors:
					if !ok {
						return coordinator.Shutdown(drainTimeout)
					}
					logger.Error("watch error", "error", watchErr)
				}
			}
		},
	}
	cmd.Flags().StringVar(&producerName, "producer", "", "producer template name")
	return cmd
}
