package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5/pgxpool"

	"order-relay-bot/internal/address"
	"order-relay-bot/internal/cleanup"
	"order-relay-bot/internal/order"
	"order-relay-bot/internal/pkg"
	"order-relay-bot/internal/pkg/config"
	"order-relay-bot/internal/shift"
	"order-relay-bot/internal/telegram"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	clk := clock.New()
	window, err := shift.ParseWindow(cfg.NightWindow.Start, cfg.NightWindow.End, cfg.Timezone, clk)
	if err != nil {
		log.Fatal(err)
	}

	var orderRepo order.Repo = order.NopRepo{}
	var pool *pgxpool.Pool
	if cfg.DB.DSN != "" {
		pool, err = pgxpool.New(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		orderRepo = order.NewDefaultRepo(pool)
		if err := orderRepo.InitSchema(ctx); err != nil {
			log.Fatal(err)
		}
		slog.Info("Order journal enabled")
	}
	orderService := order.NewDefaultService(orderRepo, clk)
	numberer := order.NewNumberer(clk, window.Location)

	httpClient := pkg.NewHTTPClient(cfg.HTTP.Timeout, cfg.HTTP.RPS, cfg.HTTP.Burst)

	var checker address.Checker = address.NopChecker{}
	if cfg.Address.APIKey != "" {
		checker = address.NewLLMChecker(address.Options{
			APIKey:     cfg.Address.APIKey,
			BaseURL:    cfg.Address.BaseURL,
			Model:      cfg.Address.Model,
			RPS:        cfg.Address.RPS,
			Burst:      cfg.Address.Burst,
			HTTPClient: pkg.NewHTTPClient(30*time.Second, 0, 0),
		})
	} else {
		slog.Warn("OPENAI_API_KEY is not set, address check disabled")
	}

	client, err := telegram.NewClient(&cfg.TelegramCfg, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	scheduler := cleanup.NewScheduler(client, clk, cfg.Cleanup.Delay)

	bot := telegram.NewBot(client, cfg, telegram.Deps{
		Orders:   orderService,
		Numberer: numberer,
		Night:    window,
		Address:  checker,
		Cleanup:  scheduler,
	})
	bot.Start(ctx, client)

	<-ctx.Done()
	slog.Info("Shutting down...")
	ctx, shutdown := context.WithTimeout(context.Background(), time.Second*15)
	defer shutdown()

	if err := bot.Wait(ctx); err != nil {
		slog.Error("Failed to finish order intake", "error", err)
	}

	if err := scheduler.Stop(ctx); err != nil {
		slog.Error("Failed to stop cleanup scheduler", "error", err, "pending", scheduler.Pending())
	}

	if pool != nil {
		pool.Close()
	}
}
