package gatekeeper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/effort-league/internal/domain"
	"github.com/riskibarqy/effort-league/internal/domain/user"
	basecache "github.com/riskibarqy/effort-league/internal/platform/cache"
	"github.com/riskibarqy/effort-league/internal/platform/logging"
	"github.com/riskibarqy/effort-league/internal/platform/resilience"
)

const tokenCacheTTL = 30 * time.Second

// Client verifies access tokens against the gatekeeper identity service.
// Successful introspections are cached briefly so a burst of requests from
// one user does not hammer the identity service, and a circuit breaker keeps
// an outage there from dragging every authenticated call down with it.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	breaker       *resilience.CircuitBreaker
	tokenCache    *basecache.Store
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, baseURL, introspectPath, adminKey string, breakerCfg resilience.CircuitBreakerConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	var breaker *resilience.CircuitBreaker
	if breakerCfg.Enabled {
		cfg := resilience.NormalizeCircuitBreakerConfig(breakerCfg)
		breaker = resilience.NewCircuitBreaker(cfg.FailureThreshold, cfg.OpenTimeout, cfg.HalfOpenMaxReq)
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(baseURL, introspectPath),
		adminKey:      adminKey,
		breaker:       breaker,
		tokenCache:    basecache.NewStore(tokenCacheTTL),
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", domain.ErrUnauthorized)
	}

	// The cache key is a digest, never the raw token.
	cacheKey := "introspect:" + hashToken(token)
	if v, ok := c.tokenCache.Get(ctx, cacheKey); ok {
		principal, _ := v.(user.Principal)
		return principal, nil
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return user.Principal{}, fmt.Errorf("%w: identity service circuit open", domain.ErrDependencyUnavailable)
		}
	}

	principal, err := c.introspect(ctx, token)
	if err != nil {
		if c.breaker != nil && isTransient(err) {
			c.breaker.RecordFailure()
		} else if c.breaker != nil {
			c.breaker.RecordSuccess()
		}
		return user.Principal{}, err
	}

	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
	c.tokenCache.Set(ctx, cacheKey, principal)

	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: request introspection to gatekeeper: %v", errGatekeeperTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", domain.ErrUnauthorized)
	}
	if resp.StatusCode == http.StatusForbidden {
		// A 403 here means our admin key was rejected, not the user's token.
		return user.Principal{}, fmt.Errorf("%w: gatekeeper rejected the admin key", domain.ErrDependencyUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("read introspect response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "gatekeeper introspection non-200",
			"status_code", resp.StatusCode,
		)
		return user.Principal{}, fmt.Errorf("%w: introspection failed with status %d", errGatekeeperTransient, resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", domain.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: decoded.UserID,
		Name:   decoded.Name,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}
