package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piranimarcos/bookApp/api"
	"github.com/piranimarcos/bookApp/auth"
	"github.com/piranimarcos/bookApp/library"
	"github.com/piranimarcos/bookApp/resolver"
	"github.com/piranimarcos/bookApp/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the GraphQL API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), loadConfig(conf))
	},
}

func init() {
	serveCmd.Flags().String("addr", ":4000", "Address to listen on.")
	serveCmd.Flags().Bool("migrate", true, "Create missing tables before serving.")
}

func runServe(ctx context.Context, cfg config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAlg)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if cfg.Migrate {
		if err := library.Migrate(ctx, db); err != nil {
			return err
		}
	}

	authors := library.NewAuthorRepository(db)
	resolvers := resolver.New(resolver.Deps{
		Guard:   auth.NewGuard(verifier, logger.Named("auth")),
		Authors: authors,
		Books:   library.NewBookRepository(db, authors),
		Logger:  logger.Named("resolver"),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, "bookapp"),
	)

	schema, err := api.NewSchema(api.NewRoot(resolvers, api.NewMetrics(reg)))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewHandler(schema, reg, logger.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("serving graphql",
		zap.String("addr", cfg.Addr),
		zap.String("db_driver", cfg.DBDriver),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "listen")
	}

	return nil
}
