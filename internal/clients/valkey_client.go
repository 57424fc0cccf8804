package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/corenlp-sentiment/config"
	"github.com/valkey-io/valkey-go"
)

type ValkeyClient struct {
	Client valkey.Client
	cfg    config.ValkeyConfig
	mu     sync.Mutex
}

func NewValkeyClient(cfg config.ValkeyConfig) (*ValkeyClient, error) {
	client, err := connectValkey(cfg)
	if err != nil {
		return nil, err
	}
	return &ValkeyClient{Client: client, cfg: cfg}, nil
}

func connectValkey(cfg config.ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.Address,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address))
	return client, nil
}

func (vc *ValkeyClient) reconnect() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Reconnecting to Valkey...")
	client, err := connectValkey(vc.cfg)
	if err != nil {
		slog.Error("[ValkeyClient] Reconnect failed",
			slog.String("error", err.Error()))
		return
	}
	vc.Client.Close()
	vc.Client = client
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

// Get returns the cached value for key. A missing key is not an error.
func (vc *ValkeyClient) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := vc.withRetry(ctx, func(c valkey.Client) error {
		v, err := c.Do(ctx, c.B().Get().Key(key).Build()).ToString()
		value = v
		return err
	})
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key and expires it after ttl.
func (vc *ValkeyClient) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return vc.withRetry(ctx, func(c valkey.Client) error {
		results := c.DoMulti(ctx,
			c.B().Set().Key(key).Value(value).Build(),
			c.B().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build(),
		)
		for _, r := range results {
			if err := r.Error(); err != nil {
				return err
			}
		}
		return nil
	})
}

// withRetry runs op up to VALKEY_RETRIES times, reconnecting after
// connection errors. A nil reply is a result, not a failure.
func (vc *ValkeyClient) withRetry(ctx context.Context, op func(valkey.Client) error) error {
	var err error
	for attempt := 1; attempt <= VALKEY_RETRIES; attempt++ {
		err = op(vc.client())
		if err == nil || valkey.IsValkeyNil(err) {
			return err
		}

		slog.Warn("[ValkeyClient] Command failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.reconnect()
		}
		if attempt == VALKEY_RETRIES {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(VALKEY_RETRY_DELAY):
		}
	}
	return err
}

func isConnectionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
