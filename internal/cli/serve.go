package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pearlcard/internal/cache"
	intconfig "pearlcard/internal/config"
	intdb "pearlcard/internal/db"
	"pearlcard/internal/fareclient"
	api "pearlcard/internal/http"
	h "pearlcard/internal/http/handlers"
	"pearlcard/internal/metrics"
	"pearlcard/internal/repositories"
	"pearlcard/internal/utils"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), intconfig.LoadEnv())
		},
	}
}

func runServe(ctx context.Context, env intconfig.Env) error {
	if err := env.Validate(); err != nil {
		return err
	}
	if env.UsesDevJWTSecret() {
		utils.Logger().Warn("sessions are signed with the development JWT secret; set JWT_SECRET",
			zap.String("module", "CONFIG"), zap.String("gin_mode", env.GinMode))
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	loc, err := utils.LoadLocation(env.DisplayTimezone)
	if err != nil {
		return fmt.Errorf("display timezone: %w", err)
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	results := repositories.CalculationRepository{DB: db, Dialect: intdb.DialectFor(env.DBDriver)}
	if err := results.EnsureSchema(ctx); err != nil {
		return err
	}

	rdb, err := intconfig.ConnectRedis(ctx, env)
	if err != nil {
		// the history cache is optional; run without it
		utils.LogFailure("", "redis", "connect", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	m := metrics.New(nil)
	client := fareclient.New(env.FareServiceURL, env.FareServiceTimeout)
	client.Metrics = m

	r := api.NewRouter(env, h.Dependencies{
		Gateway:  client,
		Results:  results,
		Cache:    cache.NewHistoryCache(rdb, env.HistoryCacheTTL),
		Metrics:  m,
		Location: loc,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.LogEvent("", "server", "start", "listening on "+env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.LogEvent("", "server", "shutdown", "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	utils.LogEvent("", "server", "stopped", "server stopped cleanly")
	return nil
}
