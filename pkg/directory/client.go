package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/sauportal/notifier/pkg/logger"
)

// Client resolves group and user identities against the external directory
// service. It is constructed once with its base URL and credentials source
// and holds no mutable global state.
type Client struct {
	baseURL       string
	groupsEnabled bool
	httpClient    *http.Client
	logger        *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets the logger for the Client.
func WithClientLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a directory client. When cfg.TokenURL is set, every directory
// call carries a bearer token obtained via the OAuth2 client-credentials
// flow; the token source refreshes tokens as they expire.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: BaseURL is required", ErrInvalidConfig)
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: BaseURL: %v", ErrInvalidConfig, err)
	}

	c := &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		groupsEnabled: cfg.GroupsEnabled,
		logger:        slog.Default(),
	}

	base := &http.Client{Timeout: cfg.Timeout}
	if cfg.TokenURL != "" {
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, fmt.Errorf("%w: ClientID and ClientSecret are required with TokenURL", ErrInvalidConfig)
		}
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		// Route token requests through the timeout-bound base client.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		c.httpClient = cc.Client(ctx)
		c.httpClient.Timeout = cfg.Timeout
	} else {
		c.httpClient = base
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ResolveGroup expands a group identifier into its member user ids.
//
// Fails with ErrGroupsDisabled before any network call when the feature flag
// is off. Network, auth and parse failures are surfaced, not swallowed: the
// caller depends on completeness of the member set.
func (c *Client) ResolveGroup(ctx context.Context, groupID string) ([]string, error) {
	if !c.groupsEnabled {
		return nil, fmt.Errorf("%w: group %q", ErrGroupsDisabled, groupID)
	}

	endpoint := c.baseURL + "/groups/getusers/" + url.PathEscape(groupID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGroupLookupFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logTokenFailure(ctx, err)
		return nil, fmt.Errorf("%w: group %q: %v", ErrGroupLookupFailed, groupID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: group %q: HTTP %d", ErrGroupLookupFailed, groupID, resp.StatusCode)
	}

	var userIDs []string
	if err := json.NewDecoder(resp.Body).Decode(&userIDs); err != nil {
		return nil, fmt.Errorf("%w: group %q: parsing member list: %v", ErrGroupLookupFailed, groupID, err)
	}
	return userIDs, nil
}

// ResolveEmail looks up a user's email address. It is best effort: on any
// failure (timeout, non-2xx, missing field) it reports "no email" instead of
// failing the caller - an unreachable directory must not block push delivery.
func (c *Client) ResolveEmail(ctx context.Context, userID string) (string, bool) {
	endpoint := c.baseURL + "/users/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logTokenFailure(ctx, err)
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Directory user lookup failed",
			logger.UserID(userID),
			logger.Error(err),
		)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Directory user lookup returned non-OK status",
			logger.UserID(userID),
			slog.Int("status", resp.StatusCode),
		)
		return "", false
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Directory user lookup returned unparsable body",
			logger.UserID(userID),
			logger.Error(err),
		)
		return "", false
	}
	if user.Email == "" {
		return "", false
	}
	return user.Email, true
}

// logTokenFailure surfaces token endpoint errors with a truncated body so
// misconfigured credentials show up in logs without dumping full responses.
func (c *Client) logTokenFailure(ctx context.Context, err error) {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return
	}
	status := 0
	if retrieveErr.Response != nil {
		status = retrieveErr.Response.StatusCode
	}
	c.logger.LogAttrs(ctx, slog.LevelWarn, "Token endpoint error",
		slog.Int("status", status),
		slog.String("body", truncateBody(retrieveErr.Body)),
	)
}

const maxLoggedBody = 1000

func truncateBody(body []byte) string {
	if len(body) <= maxLoggedBody {
		return string(body)
	}
	return string(body[:maxLoggedBody]) + "..."
}
