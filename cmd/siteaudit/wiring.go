package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/olegrjumin/siteaudit/internal/checker"
	"github.com/olegrjumin/siteaudit/internal/config"
	"github.com/olegrjumin/siteaudit/internal/events"
	"github.com/olegrjumin/siteaudit/internal/httpclient"
	"github.com/olegrjumin/siteaudit/internal/logging"
	"github.com/olegrjumin/siteaudit/internal/reputation"
	"github.com/olegrjumin/siteaudit/internal/session"
)

const redisKeyPrefix = "siteaudit:"

// checkerOptions translates configuration into analysis options
func checkerOptions(cfg *config.Config) checker.Options {
	return checker.Options{
		Timeout:           cfg.RequestTimeout,
		ProbeTimeout:      cfg.ProbeTimeout,
		ReputationTimeout: cfg.ReputationTimeout,
		MaxRedirects:      cfg.MaxRedirects,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		UserAgent:         cfg.UserAgent,
	}
}

// newChecker builds the checker with the configured reputation sources
func newChecker(cfg *config.Config) *checker.Checker {
	var sources []checker.ReputationSource
	if cfg.Reputation.APIURL != "" {
		sources = append(sources, reputation.NewAPISource(cfg.Reputation.APIURL, cfg.UserAgent))
	}
	for _, zone := range cfg.Reputation.DNSBLZones {
		sources = append(sources, reputation.NewDNSBLSource(zone, nil))
	}
	return checker.New(httpclient.NewClient(), sources...)
}

// newRedisClient connects to redisURL and verifies the connection
func newRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// storage holds the server's event recorder and session store
type storage struct {
	recorder events.Recorder
	sessions session.Store
	close    func()
}

// newStorage uses Redis when configured and in-memory stores otherwise
func newStorage(cfg *config.Config, logger *logging.Logger) (*storage, error) {
	if cfg.RedisURL == "" {
		mem := session.NewMemoryStore(cfg.SessionTTL)
		logger.Info("Using in-memory event and session storage")
		return &storage{
			recorder: events.NewLogRecorder(logger, events.NewMemoryRecorder(events.DefaultCapacity)),
			sessions: mem,
			close:    mem.Close,
		}, nil
	}

	client, err := newRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	logger.Info("Using Redis event and session storage", "addr", client.Options().Addr)
	return &storage{
		recorder: events.NewLogRecorder(logger, events.NewRedisRecorder(client, redisKeyPrefix, events.DefaultCapacity)),
		sessions: session.NewRedisStore(client, redisKeyPrefix, cfg.SessionTTL),
		close:    func() { _ = client.Close() },
	}, nil
}
