package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clanops/squad-roster-backend/internal/balance"
	"github.com/clanops/squad-roster-backend/internal/config"
	"github.com/clanops/squad-roster-backend/internal/httpapi"
	"github.com/clanops/squad-roster-backend/internal/hub"
	"github.com/clanops/squad-roster-backend/internal/power"
	"github.com/clanops/squad-roster-backend/internal/roster"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, logger)

	support := make(map[string]bool, len(cfg.SupportClasses))
	for _, c := range cfg.SupportClasses {
		support[c] = true
	}
	bcfg := balance.Config{
		SupportClasses: support,
		ClassFactors:   power.ClassFactors(cfg.ClassFactors),
	}

	handler := httpapi.SetupRoutes(h, roster.NewStore(db), bcfg, logger)
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
