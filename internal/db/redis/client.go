// Package redis implements db.Store on Redis Stack (or Redis 8 with the Query
// Engine) through rueidis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/ashokkumar81090/Hackathon/internal/db"
)

var _ db.Store = (*Store)(nil)

// DefaultTextScorer is the FT.SEARCH SCORER for keyword queries. Redis 8 also
// offers BM25STD.
const DefaultTextScorer = "BM25"

const readyPollInterval = 100 * time.Millisecond

// Config holds connection parameters. URL, when set, takes precedence over
// Addrs and Password and may carry credentials, database and TLS.
type Config struct {
	URL        string
	Addrs      []string
	Password   string
	TextScorer string
}

// Store talks RESP2 to a single Redis deployment; the FT.SEARCH reply parsing
// in search.go assumes the RESP2 array layout.
type Store struct {
	client rueidis.Client
	scorer string
}

// NewStore dials Redis.
func NewStore(cfg Config) (*Store, error) {
	opt, err := clientOption(cfg)
	if err != nil {
		return nil, err
	}
	client, err := rueidis.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return newStore(client, cfg.TextScorer), nil
}

func newStore(client rueidis.Client, scorer string) *Store {
	if scorer == "" {
		scorer = DefaultTextScorer
	}
	return &Store{client: client, scorer: scorer}
}

func clientOption(cfg Config) (rueidis.ClientOption, error) {
	var opt rueidis.ClientOption
	switch {
	case cfg.URL != "":
		parsed, err := rueidis.ParseURL(cfg.URL)
		if err != nil {
			return opt, fmt.Errorf("parse redis url: %w", err)
		}
		opt = parsed
	case len(cfg.Addrs) > 0:
		opt = rueidis.ClientOption{InitAddress: cfg.Addrs, Password: cfg.Password}
	default:
		return opt, errors.New("redis: url or addrs is required")
	}
	opt.DisableCache = true
	opt.AlwaysRESP2 = true
	return opt, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until Redis answers or timeout expires. The last ping
// error is reported on timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last error
	for {
		if last = s.Ping(ctx); last == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("redis not ready after %s: %w", timeout, errors.Join(ctx.Err(), last))
		case <-time.After(readyPollInterval):
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr reports whether err is a server reply whose message contains any of fragments.
func isRedisErr(err error, fragments ...string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	msg := strings.ToLower(re.Error())
	for _, f := range fragments {
		if strings.Contains(msg, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// isMissingIndex matches the "unknown index" replies of Redis Stack 7.x and Redis 8.
func isMissingIndex(err error) bool {
	return isRedisErr(err, "unknown index name", "no such index")
}
