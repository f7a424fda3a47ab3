package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"

	"powerball/internal/config"
	"powerball/internal/handlers"
	"powerball/internal/services"
)

func main() {
	defer logger.Init("powerball", true, false, io.Discard).Close()

	var cfg config.Config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatalf("processing the config: %v", err)
	}

	if err := run(&cfg); err != nil {
		logger.Fatalf("run: %v", err)
	}
}

func run(cfg *config.Config) error {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Build the game and hydrate it from any previous run.
	game := services.NewGame()
	store := services.NewStore(cfg.SavePath)
	if state, err := store.Load(); err != nil {
		logger.Errorf("loading saved state: %v", err)
	} else if state != nil {
		game.Restore(state)
		logger.Infof("restored %d players, %d drawings from %s",
			len(state.Players), state.TotalDrawings, cfg.SavePath)
	}
	game.AttachStore(store)

	// 2. Set up the drawing scheduler and the websocket push hub.
	scheduler := services.NewScheduler(game, cfg.TickInterval)
	hub := handlers.NewHub(game, cfg.PushInterval)

	// 3. Set up the Gin router.
	router := gin.Default()
	handlers.NewHTTPHandler(game, hub, cfg.AdminPassword).RegisterRoutes(router)
	srv := &http.Server{Addr: cfg.Addr, Handler: router}

	// 4. Run everything until a shutdown signal arrives. The autosave loop
	// performs the final synchronous save on its way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return scheduler.Run(ctx) })
	group.Go(func() error { return store.AutoSave(ctx, game, cfg.SaveInterval) })
	group.Go(func() error { return hub.Run(ctx) })
	group.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Infof("server starting on %s", cfg.Addr)
	return group.Wait()
}
