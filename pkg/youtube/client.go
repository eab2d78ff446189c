// Package youtube is the provider client on top of the YouTube Data API v3. It owns the
// api key, charges every completed call to the quota ledger and classifies failures.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/repository"
)

//go:generate moq -out mocks/quota_tracker.go -pkg mocks -skip-ensure -fmt goimports . QuotaTracker

// QuotaTracker is the ledger the client charges calls to
type QuotaTracker interface {
	Track(ctx context.Context, units int, endpoint domain.Endpoint, cc domain.CallContext)
	MarkExhausted(ctx context.Context)
	Reset(ctx context.Context)
}

// Params configures the client
type Params struct {
	Store             *repository.Store
	Quota             QuotaTracker
	APIKey            string        // seeds storage if no key is stored yet
	Endpoint          string        // base url override, empty for the public api
	RequestsPerSecond float64       // client side throttle, 0 disables it
	Timeout           time.Duration // per call timeout, 0 for none
}

// Client calls the provider api
type Client struct {
	store    *repository.Store
	quota    QuotaTracker
	endpoint string
	timeout  time.Duration
	limiter  *rate.Limiter

	mu     sync.Mutex
	apiKey string
	svc    *youtube.Service // built lazily for the current key
}

// New makes a client and rehydrates the api key from storage
func New(ctx context.Context, p Params) *Client {
	c := &Client{store: p.Store, quota: p.Quota, endpoint: p.Endpoint, timeout: p.Timeout}
	if p.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(p.RequestsPerSecond), 1)
	}

	res := repository.Load(ctx, p.Store, domain.KeyAPIKey, "", nil)
	c.apiKey = res.Value
	if c.apiKey == "" && p.APIKey != "" {
		lgr.Printf("[INFO] seeding api key from configuration")
		c.apiKey = p.APIKey
		p.Store.Save(ctx, domain.KeyAPIKey, p.APIKey)
	}
	return c
}

// APIKey returns the current key, empty if none is set
func (c *Client) APIKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey
}

// SetAPIKey stores a new key. An empty key removes the stored one and resets the quota ledger.
func (c *Client) SetAPIKey(ctx context.Context, key string) {
	key = strings.TrimSpace(key)
	c.mu.Lock()
	c.apiKey = key
	c.svc = nil
	c.mu.Unlock()

	if key != "" {
		c.store.Save(ctx, domain.KeyAPIKey, key)
		return
	}
	c.store.Remove(ctx, domain.KeyAPIKey)
	c.quota.Reset(ctx)
}

// service returns the api service for the current key
func (c *Client) service() (*youtube.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}
	if c.svc != nil {
		return c.svc, nil
	}
	opts := []option.ClientOption{option.WithAPIKey(c.apiKey)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	svc, err := youtube.NewService(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	c.svc = svc
	return svc, nil
}

// call runs one provider request, charging it and classifying its error
func (c *Client) call(ctx context.Context, endpoint domain.Endpoint, cc domain.CallContext,
	fn func(ctx context.Context, svc *youtube.Service) error) error {
	svc, err := c.service()
	if err != nil {
		return err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	err = fn(ctx, svc)
	if err == nil {
		// ledger writes must not be lost to a caller cancelling right after the response
		c.quota.Track(context.WithoutCancel(ctx), endpoint.Cost(), endpoint, cc)
		return nil
	}
	return c.classify(ctx, endpoint, cc, err)
}

func (c *Client) classify(ctx context.Context, endpoint domain.Endpoint, cc domain.CallContext, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("youtube: %s: %w", endpoint, ctxErr)
		}
		return &APIError{Endpoint: string(endpoint), Message: err.Error()}
	}

	msg := gerr.Message
	if msg == "" {
		msg = gerr.Body
	}
	switch {
	case strings.Contains(msg, "API key not valid"):
		lgr.Printf("[WARN] %s call rejected, api key is not valid", endpoint)
		return ErrInvalidCredential
	case strings.Contains(msg, "quota"):
		lgr.Printf("[WARN] %s call rejected, quota exceeded", endpoint)
		c.quota.MarkExhausted(context.WithoutCancel(ctx))
		return ErrQuotaExceeded
	}

	// client errors still cost quota
	if gerr.Code >= http.StatusBadRequest && gerr.Code < http.StatusInternalServerError {
		c.quota.Track(context.WithoutCancel(ctx), endpoint.Cost(), endpoint, cc)
	}
	if msg == "" {
		msg = http.StatusText(gerr.Code)
	}
	return &APIError{Endpoint: string(endpoint), Status: gerr.Code, Message: msg}
}
