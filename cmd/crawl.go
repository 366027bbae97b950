package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appconfig "github.com/odmbench/harvester/internal/config"
	"github.com/odmbench/harvester/internal/crawl"
	"github.com/odmbench/harvester/internal/opsserver"
	"github.com/odmbench/harvester/internal/runmeta"
	"github.com/odmbench/harvester/internal/sink"
)

func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Run a harvest over the configured seeds",
		Long: `Seeds the frontier from the configured category URLs and processes it
until the frontier drains or the page budget is reached. Records land in
the configured sinks; unusable pages are captured for diagnosis.`,
		RunE: runCrawlCommand,
	}
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	app, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := app.Logger

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher, err := crawl.NewCollyFetcher(app.Cfg.Crawl, logger.Named("fetch"))
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	renderer, err := buildRenderer(app.Cfg.Crawl, logger.Named("render"))
	if err != nil {
		return err
	}
	defer func() {
		if renderer != nil {
			if cerr := renderer.Close(context.Background()); cerr != nil {
				logger.Warn("renderer close failed", zap.Error(cerr))
			}
		}
	}()

	records, jsonl, pg, err := buildRecordSink(ctx, app.Cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := records.Close(context.Background()); cerr != nil {
			logger.Warn("sink close failed", zap.Error(cerr))
		}
	}()

	capture, err := buildCapture(ctx, app.Cfg.Capture, logger.Named("capture"))
	if err != nil {
		return err
	}

	run := runmeta.New(app.Cfg.Crawl, time.Now().UTC())
	if err := jsonl.WriteRun(ctx, run); err != nil {
		return fmt.Errorf("record run start: %w", err)
	}
	if pg != nil {
		if err := pg.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("record run start: %w", err)
		}
	}
	logger.Info("harvest starting",
		zap.String("run_id", run.ID),
		zap.Strings("seeds", app.Cfg.Crawl.Seeds),
	)

	pipe, err := crawl.NewPipeline(
		app.Cfg.Crawl, logger, fetcher, renderer, records, capture, run.ID)
	if err != nil {
		return err
	}

	ops := opsserver.New(app.Cfg.Ops.ListenAddr, logger.Named("ops"), pipe.Progress)
	go func() {
		if serr := ops.Start(); serr != nil {
			logger.Error("ops server failed", zap.Error(serr))
			stop()
		}
	}()

	runErr := pipe.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		runErr = fmt.Errorf("run harvest: %w", runErr)
	} else {
		runErr = nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ops.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops server shutdown failed", zap.Error(err))
	}

	run.Finish(time.Now().UTC())
	if pg != nil {
		if err := pg.SaveRun(shutdownCtx, run); err != nil {
			logger.Warn("record run finish failed", zap.Error(err))
		}
	}

	snap := pipe.Progress()
	logger.Info("harvest finished",
		zap.String("run_id", run.ID),
		zap.Int("pages", snap.Scheduled),
		zap.Int("records", snap.Emitted),
	)
	return runErr
}

// buildRenderer is nil-tolerant: when rendering is disabled, or Chrome is
// missing on the host, the pipeline runs with direct fetches only.
func buildRenderer(cfg crawl.Config, logger *zap.Logger) (crawl.Renderer, error) {
	if cfg.RenderConcurrency <= 0 {
		return nil, nil
	}
	renderer, err := crawl.NewChromedpRenderer(cfg, logger)
	switch {
	case err == nil:
		return renderer, nil
	case errors.Is(err, crawl.ErrRendererDisabled):
		logger.Warn("renderer unavailable, continuing without escalation")
		return nil, nil
	default:
		return nil, fmt.Errorf("init renderer: %w", err)
	}
}

// buildRecordSink assembles the fan-out: JSONL always, Postgres when a DSN
// is set, Pub/Sub when a topic is set. The JSONL and Postgres sinks are also
// returned on their own for run bookkeeping.
func buildRecordSink(
	ctx context.Context,
	cfg appconfig.Config,
	logger *zap.Logger,
) (crawl.RecordSink, *sink.JSONLSink, *sink.PostgresSink, error) {
	jsonl, err := sink.NewJSONLSink(cfg.Output.JSONLPath, logger.Named("jsonl"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init jsonl sink: %w", err)
	}
	sinks := []crawl.RecordSink{jsonl}

	var pg *sink.PostgresSink
	if cfg.Output.Postgres.DSN != "" {
		pg, err = sink.NewPostgresSink(ctx, cfg.Output.Postgres)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init postgres sink: %w", err)
		}
		sinks = append(sinks, pg)
	}

	if cfg.PubSub.Topic != "" {
		pub, err := sink.NewPubSubPublisher(ctx, cfg.PubSub.ProjectID, cfg.PubSub.Topic)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init pubsub publisher: %w", err)
		}
		sinks = append(sinks, pub)
	}

	if len(sinks) == 1 {
		return jsonl, jsonl, nil, nil
	}
	return sink.NewTee(sinks...), jsonl, pg, nil
}

func buildCapture(ctx context.Context, cfg appconfig.CaptureConfig, logger *zap.Logger) (crawl.Capture, error) {
	if cfg.GCSBucket != "" {
		c, err := sink.NewGCSCapture(ctx, cfg.GCSBucket, cfg.GCSPrefix, logger)
		if err != nil {
			return nil, fmt.Errorf("init gcs capture: %w", err)
		}
		return c, nil
	}
	c, err := sink.NewFSCapture(cfg.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("init capture dir: %w", err)
	}
	return c, nil
}
