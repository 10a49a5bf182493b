package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/pipeline"
	"github.com/sells-group/cardscan/internal/resilience"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the card extraction HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		jobs := pipeline.NewJobs(env.Pipeline, time.Duration(cfg.Batch.JobTTLMins)*time.Minute)
		api := newAPIServer(ctx, env.Pipeline, jobs, env.Breakers)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		jobs.Wait()
		return nil
	},
}

// apiServer holds the HTTP handlers' dependencies.
type apiServer struct {
	// ctx bounds async batch jobs; it outlives any single request.
	ctx      context.Context
	pipeline *pipeline.Pipeline
	jobs     *pipeline.Jobs
	breakers *resilience.ServiceBreakers
	validate *validator.Validate

	uploadDir     string
	corsOrigins   []string
	enrichDefault bool
}

func newAPIServer(ctx context.Context, p *pipeline.Pipeline, jobs *pipeline.Jobs, breakers *resilience.ServiceBreakers) *apiServer {
	return &apiServer{
		ctx:           ctx,
		pipeline:      p,
		jobs:          jobs,
		breakers:      breakers,
		validate:      validator.New(),
		uploadDir:     cfg.Upload.Dir,
		corsOrigins:   cfg.Server.CORSOrigins,
		enrichDefault: cfg.Enrich.Enabled,
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
