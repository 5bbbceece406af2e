package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Anand-247/FE-VF/internal/api"
	"github.com/Anand-247/FE-VF/internal/catalog"
	"github.com/Anand-247/FE-VF/internal/checkout"
	"github.com/Anand-247/FE-VF/internal/config"
	"github.com/Anand-247/FE-VF/internal/events"
	"github.com/Anand-247/FE-VF/internal/logger"
	"github.com/Anand-247/FE-VF/internal/profile"
	"github.com/Anand-247/FE-VF/internal/session"
	"github.com/Anand-247/FE-VF/internal/storage"
	"github.com/Anand-247/FE-VF/internal/storefront"
	"github.com/Anand-247/FE-VF/internal/whatsapp"
)

// app is the wired storefront shared by the server and the CLI commands.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	api      *api.Client
	catalog  *catalog.Service
	sessions *session.Manager

	// the local installation's session, set by bindLocal
	profile *profile.Store
	shop    *storefront.Service

	closers []func() error
}

func newApp(ctx context.Context, opener whatsapp.Opener) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	store, closeStore, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	log.Debug("storage opened", zap.String("driver", cfg.Storage.Driver))

	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, closeStore)

	a.api = api.NewClient(cfg.API, store, log.Named("api"))
	a.catalog = catalog.NewService(a.api, catalog.NewCache(store, cfg.Catalog.CacheTTL), log.Named("catalog"))

	var pub events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
		log.Info("publishing order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	a.closers = append(a.closers, pub.Close)

	deps := storefront.Deps{
		Catalog:        a.catalog,
		Backend:        a.api,
		Composer:       checkout.NewComposer(cfg.Shop.StoreURL, cfg.Shop.Currency),
		Launcher:       whatsapp.NewLauncher(opener, log.Named("whatsapp")),
		Events:         pub,
		WhatsappNumber: cfg.Shop.WhatsappNumber,
		Currency:       cfg.Shop.Currency,
	}
	a.sessions = session.NewManager(store, deps, cfg.Server.SessionIdleTimeout, log.Named("session"))
	return a, nil
}

// bindLocal loads the cart and profile kept for this machine.
func (a *app) bindLocal(ctx context.Context) {
	s := a.sessions.Get(ctx, "")
	a.profile = s.Profile
	a.shop = s.Shop
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
