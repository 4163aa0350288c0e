package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sumrise/sumrise/internal/config"
	"github.com/sumrise/sumrise/internal/llm"
	"github.com/sumrise/sumrise/internal/problem"
	"github.com/sumrise/sumrise/internal/store"
)

// backend is the opened storage for one invocation.
type backend struct {
	problems store.ProblemRepo
	events   store.EventRepo
	closers  []func() error
}

func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// openBackend opens the problem store selected by cfg. Gateway events go to
// SQLite with the sqlite backend and stay in memory otherwise.
func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{}
	switch cfg.Store {
	case config.StoreSQLite:
		st, err := openSQLite(cfg)
		if err != nil {
			return nil, err
		}
		b.problems = st.ProblemRepo()
		b.events = st.EventRepo()
		b.closers = append(b.closers, st.Close)
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		b.problems = store.NewRedisProblemRepo(client)
		b.events = store.NewMemoryEventRepo()
		b.closers = append(b.closers, client.Close)
	default:
		b.problems = store.NewMemoryProblemRepo()
		b.events = store.NewMemoryEventRepo()
	}
	log.Debug().Str("store", cfg.Store).Msg("problem store opened")
	return b, nil
}

// openSQLite opens the database at --db, SUMRISE_DB or the default XDG path.
func openSQLite(cfg config.Config) (*store.Store, error) {
	path := cfg.DBPath
	if path != "" {
		if err := store.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	} else {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// llmConfig resolves gateway settings from the environment. An explicit
// provider overrides discovery. Without any credentials the offline demo
// provider is used.
func llmConfig(provider string) (llm.Config, error) {
	cfg, err := llm.ConfigFromEnv()
	if err != nil {
		return llm.Config{}, err
	}
	if provider != "" {
		cfg.Provider = provider
	} else if cfg.Validate() != nil {
		log.Warn().Msg("no LLM credentials found; using the offline demo provider")
		cfg.Provider = "mock"
	}
	if cfg.Provider == "mock" {
		cfg.MockFallback = problem.DemoResponder
	}
	return cfg, nil
}

// newService wires store, gateway and problem service for one invocation.
// The caller closes the returned backend.
func newService(ctx context.Context) (*problem.Service, *backend, error) {
	b, err := openBackend(ctx, appConfig)
	if err != nil {
		return nil, nil, err
	}

	lcfg, err := llmConfig(appConfig.Provider)
	if err != nil {
		_ = b.Close()
		return nil, nil, err
	}
	provider, err := llm.NewProvider(ctx, lcfg, b.events)
	if err != nil {
		_ = b.Close()
		return nil, nil, fmt.Errorf("LLM provider: %w", err)
	}
	log.Debug().Str("provider", lcfg.Provider).Str("model", provider.ModelID()).Msg("model gateway ready")

	return problem.NewService(provider, b.problems, problem.DefaultConfig()), b, nil
}
