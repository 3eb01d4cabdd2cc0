package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fossawork/fossawork/pkg/filter"
	"github.com/fossawork/fossawork/pkg/infrastructure/config"
	"github.com/fossawork/fossawork/pkg/infrastructure/events"
	"github.com/fossawork/fossawork/pkg/infrastructure/repositories"
	"github.com/fossawork/fossawork/pkg/infrastructure/repositories/memory"
	"github.com/fossawork/fossawork/pkg/infrastructure/repositories/postgres"
	"github.com/fossawork/fossawork/pkg/infrastructure/repositories/yamlrules"
	api "github.com/fossawork/fossawork/pkg/interfaces/http"
	"github.com/fossawork/fossawork/pkg/notify"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to service configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("fossaworkd: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	table := filter.DefaultRuleTable()
	if cfg.Rules.RulesFile != "" {
		table, err = yamlrules.LoadRuleTable(cfg.Rules.RulesFile)
		if err != nil {
			return err
		}
	}
	var catalog *filter.PartsCatalog
	if cfg.Rules.CatalogFile != "" {
		catalog, err = yamlrules.LoadCatalog(cfg.Rules.CatalogFile)
		if err != nil {
			return err
		}
	}

	var store repositories.WorkOrderRepository
	if cfg.Storage.PostgresDSN != "" {
		pg, err := postgres.New(cfg.Storage.PostgresDSN)
		if err != nil {
			return err
		}
		defer pg.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = pg.EnsureSchema(ctx)
		cancel()
		if err != nil {
			return err
		}
		store = pg
		log.Printf("[%s] using postgres storage", cfg.Service.Name)
	} else {
		store = memory.NewWorkOrderRepository()
		log.Printf("[%s] using in-memory storage", cfg.Service.Name)
	}

	dispatcher, cleanup, err := buildDispatcher(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	mux := http.NewServeMux()
	handler := api.New(store, filter.NewCalculator(table), catalog, dispatcher, events.NewInMemoryEventStore())
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.Service.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[%s] listening on %s", cfg.Service.Name, cfg.Service.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("[%s] shutting down", cfg.Service.Name)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildDispatcher wires the notification sinks named in the config.
// Missing credentials just mean fewer sinks, not a startup failure.
func buildDispatcher(cfg *config.Config) (*notify.Dispatcher, func(), error) {
	var sinks []notify.Notifier
	cleanup := func() {}

	if cfg.Notify.Email.SendGridAPIKey != "" {
		sinks = append(sinks, notify.NewEmailNotifier(
			cfg.Notify.Email.SendGridAPIKey, cfg.Notify.Email.From, cfg.Notify.Email.To))
	}
	if cfg.Notify.Pushover.Token != "" && cfg.Notify.Pushover.UserKey != "" {
		sinks = append(sinks, notify.NewPushoverNotifier(
			cfg.Notify.Pushover.Token, cfg.Notify.Pushover.UserKey))
	}
	if cfg.Notify.NATS.URL != "" {
		nn, err := notify.NewNATSNotifier(cfg.Notify.NATS.URL, cfg.Notify.NATS.Subject)
		if err != nil {
			return nil, cleanup, err
		}
		sinks = append(sinks, nn)
		cleanup = nn.Close
	}

	log.Printf("notification sinks configured: %d", len(sinks))
	return notify.NewDispatcher(sinks...), cleanup, nil
}
