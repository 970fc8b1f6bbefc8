package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/smolbox"
	"github.com/aretw0/smolbox/internal/config"
	"github.com/aretw0/smolbox/internal/env"
	"github.com/aretw0/smolbox/internal/logging"
	"github.com/aretw0/smolbox/pkg/adapters/memory"
	"github.com/aretw0/smolbox/pkg/adapters/redis"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/aretw0/smolbox/pkg/observability"
)

// Options carries the global command-line flags.
// Non-empty fields override the config file.
type Options struct {
	ConfigPath string
	Root       string
	Store      string
	RedisAddr  string
	Debug      bool
}

// LoadConfig reads the config file and applies flag overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}

	if opts.Root != "" {
		cfg.Root = opts.Root
	}
	if opts.Store != "" {
		cfg.Store = opts.Store
	}
	if opts.RedisAddr != "" {
		cfg.Redis.Addr = opts.RedisAddr
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// CreateLogger configures the application logger.
// It writes to Stderr so Stdout stays parseable.
func CreateLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// CreateEngine initializes a smolbox engine from cfg.
// Extra hook sets (e.g. metrics) run after the debug log hooks.
func CreateEngine(cfg config.Config, logger *slog.Logger, extra ...domain.LifecycleHooks) (*smolbox.Engine, error) {
	engineOpts := []smolbox.Option{
		smolbox.WithLogger(logger),
	}

	// 1. Root
	if cfg.Root != "" {
		engineOpts = append(engineOpts, smolbox.WithRoot(cfg.Root))
	} else {
		engineOpts = append(engineOpts, smolbox.WithLocator(env.Detect(cfg.Marker)))
	}

	// 2. Store backend
	switch cfg.Store {
	case config.StoreRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
		engineOpts = append(engineOpts, smolbox.WithStore(store, store))
	case config.StoreMemory:
		store := memory.NewStore()
		engineOpts = append(engineOpts, smolbox.WithStore(store, store))
	}

	// 3. Hooks
	hooks := append([]domain.LifecycleHooks{observability.LogHooks(logger)}, extra...)
	engineOpts = append(engineOpts, smolbox.WithLifecycleHooks(observability.Combine(hooks...)))

	engine, err := smolbox.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
