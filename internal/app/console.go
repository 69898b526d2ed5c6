package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/chanlic/license-console/internal/config"
	"github.com/chanlic/license-console/internal/console"
	"github.com/chanlic/license-console/internal/logger"
	"github.com/chanlic/license-console/internal/storage"
	"github.com/chanlic/license-console/pkg/apiclient"
	"github.com/chanlic/license-console/pkg/httpclient"
	"github.com/chanlic/license-console/pkg/publishers"
)

const userAgent = "licensectl/1.0"

// Console is the admin console runtime. It owns the HTTP client, the result
// store and the audit publishers behind a console.Service.
type Console struct {
	cfg     *config.Config
	client  *apiclient.Client
	service *console.Service
	store   storage.Store
	fanout  *publishers.Fanout
	log     logger.Logger
}

// NewConsole builds the runtime from config. confirm answers destructive
// prompts; nil declines them.
func NewConsole(ctx context.Context, cfg *config.Config, log logger.Logger, confirm console.Confirmer) (*Console, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	httpOpts := httpclient.Options{
		Timeout:   cfg.RequestTimeout,
		Username:  cfg.AdminUsername,
		Password:  cfg.AdminPassword,
		UserAgent: userAgent,
	}
	if logger.S != nil {
		httpOpts.Logger = logger.S
	}
	httpClient := httpclient.NewRestyClient(httpOpts)
	client := apiclient.New(httpClient, cfg.APIBaseURL, log)
	log.InfoObj("api client configured", "api_config", map[string]any{
		"base_url":        cfg.APIBaseURL,
		"prefix":          cfg.APIPrefix,
		"basic_auth":      cfg.AdminUsername != "",
		"timeout_seconds": int(cfg.RequestTimeout.Seconds()),
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ResultTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"result_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	deps := console.Deps{
		API:      apiclient.NewConsole(client, cfg.APIPrefix),
		Store:    store,
		Confirm:  confirm,
		Operator: cfg.Operator,
		Log:      log,
	}
	if fanout.Size() > 0 {
		deps.Audit = fanout
	}
	service, err := console.NewService(deps)
	if err != nil {
		_ = fanout.Close()
		_ = store.Close()
		return nil, fmt.Errorf("init console: %w", err)
	}

	return &Console{
		cfg:     cfg,
		client:  client,
		service: service,
		store:   store,
		fanout:  fanout,
		log:     log,
	}, nil
}

// buildFanout loads the audit publishers. No publishers file means no audit.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		log.DebugObj("no publishers file configured; audit disabled", "publishers_file", "")
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadConfig(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]any, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]any{
			"id":      pubCfg.ID,
			"type":    pubCfg.Type,
			"actions": pubCfg.Actions,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Service returns the console actions.
func (c *Console) Service() *console.Service { return c.service }

// Client returns the raw request adapter.
func (c *Console) Client() *apiclient.Client { return c.client }

// Close releases the store and publishers.
func (c *Console) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if err := c.fanout.Close(); err != nil {
		c.log.ErrorObj("publishers close failed", "error", err)
		errs = append(errs, err)
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.log.ErrorObj("storage close failed", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
