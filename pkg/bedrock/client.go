package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/minescope/bedrockver/pkg/errors"
	"github.com/minescope/bedrockver/pkg/observability"
)

// DefaultEndpoint is the public download-links endpoint for the Bedrock
// dedicated server.
const DefaultEndpoint = "https://net-secondary.web.minecraft-services.net/api/v1.0/download/links"

// Standard fetch policy, applied by DefaultOptions.
const (
	DefaultRetries  = 1
	DefaultCooldown = 15 * time.Second
	DefaultTimeout  = 30 * time.Second
)

// Options configures a Client. Numeric fields are taken literally: a zero
// Options means a single attempt with no cooldown and no per-attempt
// deadline. Use DefaultOptions for the standard policy.
type Options struct {
	// Retries is the number of additional attempts after the first one
	// fails. Negative values leave no attempt budget at all, so every
	// fetch fails with NETWORK_ERROR.
	Retries int

	// Cooldown is the pause between failed attempts.
	Cooldown time.Duration

	// Timeout bounds each individual attempt. Zero or negative means no
	// per-attempt deadline; the parent context still applies.
	Timeout time.Duration

	// Endpoint overrides the download-links URL, e.g. for a mirror.
	// Empty means DefaultEndpoint.
	Endpoint string

	// Logger receives attempt-level debug output. Nil means log.Default().
	Logger *log.Logger
}

// DefaultOptions returns the standard fetch policy: one retry after a
// 15 second cooldown, 30 seconds per attempt, the production endpoint.
func DefaultOptions() Options {
	return Options{
		Retries:  DefaultRetries,
		Cooldown: DefaultCooldown,
		Timeout:  DefaultTimeout,
		Endpoint: DefaultEndpoint,
	}
}

// Client fetches the download-links document and answers version queries.
// It is stateless apart from configuration and safe for concurrent use;
// concurrent calls perform independent requests.
type Client struct {
	http     *http.Client
	endpoint string
	retries  int
	cooldown time.Duration
	timeout  time.Duration
	logger   *log.Logger
}

// NewClient creates a Client with the given options.
func NewClient(opts Options) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		http:     &http.Client{},
		endpoint: endpoint,
		retries:  opts.Retries,
		cooldown: opts.Cooldown,
		timeout:  opts.Timeout,
		logger:   logger,
	}
}

// Endpoint returns the download-links URL this client queries.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// LatestStable returns the newest stable version as "major.minor.patch".
// Returns NOT_FOUND when the stable channel is empty.
func (c *Client) LatestStable(ctx context.Context) (string, error) {
	return c.latest(ctx, false)
}

// LatestPreview returns the newest preview version as "major.minor.patch".
// Returns NOT_FOUND when the preview channel is empty.
func (c *Client) LatestPreview(ctx context.Context) (string, error) {
	return c.latest(ctx, true)
}

// AllStable returns every stable release, ascending. An empty channel
// yields an empty slice, not an error.
func (c *Client) AllStable(ctx context.Context) ([]Record, error) {
	return c.all(ctx, false)
}

// AllPreview returns every preview release, ascending. An empty channel
// yields an empty slice, not an error.
func (c *Client) AllPreview(ctx context.Context) ([]Record, error) {
	return c.all(ctx, true)
}

// Report fetches one channel and assembles its report document in a
// single round trip.
func (c *Client) Report(ctx context.Context, preview bool) (*Report, error) {
	records, err := c.all(ctx, preview)
	if err != nil {
		return nil, err
	}
	return BuildReport(records, preview)
}

func (c *Client) latest(ctx context.Context, preview bool) (string, error) {
	records, err := c.all(ctx, preview)
	if err != nil {
		return "", err
	}
	latest, ok := Latest(records)
	if !ok {
		return "", errNoVersions(preview)
	}
	return latest.Short(), nil
}

func (c *Client) all(ctx context.Context, preview bool) ([]Record, error) {
	payload, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	records, links := extract(payload)
	stable, previews := Partition(records)
	observability.Extract().OnExtractComplete(ctx, links, len(stable), len(previews))
	c.logger.Debug("extracted versions",
		"links", links,
		"stable", len(stable),
		"preview", len(previews))

	if preview {
		return previews, nil
	}
	return stable, nil
}

// Fetch retrieves and decodes the download-links document. It makes up to
// 1+retries attempts, each with its own deadline, waiting out the cooldown
// between failures. Any failure (transport error, non-2xx status,
// undecodable body) counts against the attempt budget; once the budget is
// spent the last cause is wrapped in a NETWORK_ERROR. Cancellation of ctx
// is returned as-is.
func (c *Client) Fetch(ctx context.Context) (any, error) {
	requestID := uuid.NewString()
	attempts := c.retries + 1
	start := time.Now()

	c.logger.Debug("fetching download links",
		"url", c.endpoint,
		"request_id", requestID,
		"attempts", attempts)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		payload, err := c.attempt(ctx, attempt, requestID)
		if err == nil {
			observability.Fetch().OnFetchComplete(ctx, attempt, time.Since(start), nil)
			return payload, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		c.logger.Debug("fetch attempt failed",
			"attempt", attempt,
			"of", attempts,
			"request_id", requestID,
			"err", err)

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cooldown):
			}
		}
	}

	var err error
	if lastErr == nil {
		// Negative retries: the loop never ran, so there is no cause.
		err = errors.New(errors.ErrCodeNetwork, "unknown fetch error")
	} else {
		err = errors.Wrap(errors.ErrCodeNetwork, lastErr, "download links fetch failed")
	}
	observability.Fetch().OnFetchComplete(ctx, max(attempts, 0), time.Since(start), err)
	return nil, err
}

// attempt performs one GET round trip against the endpoint.
func (c *Client) attempt(ctx context.Context, attempt int, requestID string) (payload any, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	status := 0
	start := time.Now()
	observability.Fetch().OnAttemptStart(ctx, attempt, c.endpoint)
	defer func() {
		observability.Fetch().OnAttemptComplete(ctx, attempt, status, time.Since(start), err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}
