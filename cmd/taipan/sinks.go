package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/lo"

	"github.com/weiihann/taipan/config"
	"github.com/weiihann/taipan/harness"
	"github.com/weiihann/taipan/sink"
)

// buildSinks turns the enabled sink names into one fan-out sink and a
// function releasing their connections. When the run prints JSON, the
// stdout sink is skipped so stdout carries a single document.
func buildSinks(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.Sinks,
	outputJSON bool,
) (harness.Sink, func(), error) {
	var (
		multi   sink.Multi
		closers []func()
	)

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	names := lo.Uniq(cfg.Enabled)
	if lo.Contains(names, "none") && len(names) > 1 {
		return nil, nil, fmt.Errorf("sink none cannot be combined with %v",
			lo.Without(names, "none"))
	}

	for _, name := range names {
		switch name {
		case "none":
			return sink.Discard{}, closeAll, nil

		case "stdout":
			if !outputJSON {
				multi = append(multi, sink.NewStdout(os.Stdout, false))
			}

		case "file":
			multi = append(multi, sink.NewFile(cfg.HistoryFile))

		case "http":
			multi = append(multi, sink.NewHTTP(cfg.HTTPURL, cfg.HTTPTimeout, logger))

		case "mongo":
			if cfg.MongoURI == "" {
				closeAll()
				return nil, nil, fmt.Errorf("mongo sink: no URI in config or MONGODB_URI")
			}

			m, err := sink.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
			if err != nil {
				closeAll()
				return nil, nil, err
			}

			multi = append(multi, m)
			closers = append(closers, func() {
				if err := m.Close(context.Background()); err != nil {
					logger.Warn("failed to close mongo sink", slog.String("error", err.Error()))
				}
			})

		case "sqlite":
			s, err := sink.OpenSQLite(ctx, cfg.SQLitePath)
			if err != nil {
				closeAll()
				return nil, nil, err
			}

			multi = append(multi, s)
			closers = append(closers, func() {
				if err := s.Close(); err != nil {
					logger.Warn("failed to close sqlite sink", slog.String("error", err.Error()))
				}
			})

		case "prometheus":
			multi = append(multi, sink.NewPrometheus(cfg.PrometheusFile))

		default:
			closeAll()
			return nil, nil, fmt.Errorf("unknown sink %q", name)
		}
	}

	return multi, closeAll, nil
}
