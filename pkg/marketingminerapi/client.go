// Package marketingminerapi provides a thin client for the Marketing Miner
// Profilers API.
//
// Every failure mode (missing credential, transport error, non-2xx status,
// upstream body with status "error") is collapsed into an error whose
// message is the exact text handed back to the tool caller, so callers
// return err.Error() verbatim.
package marketingminerapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the production Profilers API endpoint.
	DefaultBaseURL = "https://profilers-api.marketingminer.com"

	// SuggestionsEndpoint returns candidate keywords related to a seed keyword.
	SuggestionsEndpoint = "/keywords/suggestions"
	// SearchVolumeEndpoint returns search volume statistics for an exact keyword.
	SearchVolumeEndpoint = "/keywords/search-volume-data"

	requestTimeout = 30 * time.Second
)

// Fixed user-facing messages. The API contract surfaces failures as plain
// tool output, so the wording must stay stable.
const (
	msgMissingToken = "Chyba: MM_API_TOKEN není nastaven v prostředí serveru."
	msgUnknownError = "Nastala neznámá chyba"
)

var tracer = otel.Tracer("marketingminer-mcp/server/pkg/marketingminerapi")

// Envelope is the common response shape of the Profilers API. Data is kept
// raw; each tool decodes it into its own record types.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client issues authenticated GET requests against the Profilers API.
// The token may be replaced at runtime (HTTP config injection), so access
// to it is synchronized.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a Client for the given base URL and API token. An empty
// baseURL selects the production endpoint; the token may be empty and set
// later via SetToken.
func NewClient(baseURL, token string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
		token:   token,
	}
}

// SetToken replaces the API token used by subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// HasToken reports whether a credential is currently configured.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Get performs a single GET against the given endpoint with the credential
// attached as the api_token query parameter. Exactly one upstream request
// is made per call; there are no retries. When no token is configured the
// request is never sent.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*Envelope, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token == "" {
		c.log.Error("MM_API_TOKEN is not set or empty")
		return nil, errors.New(msgMissingToken)
	}

	ctx, span := tracer.Start(ctx, "marketingminer.get",
		trace.WithAttributes(attribute.String("mm.endpoint", endpoint)))
	defer span.End()

	c.log.Debug("calling Marketing Miner API",
		zap.String("endpoint", endpoint),
		zap.String("token_suffix", tokenSuffix(token)))

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Errorf("Obecná chyba při volání API: %v", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		c.log.Error("request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, errors.Errorf("Obecná chyba při volání API: %v", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, "body read failure")
		return nil, errors.Errorf("Obecná chyba při volání API: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, "upstream http error")
		c.log.Error("upstream returned error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, errors.Errorf("HTTP chyba: %d - %s", resp.StatusCode, body)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		span.SetStatus(codes.Error, "decode failure")
		return nil, errors.Errorf("Obecná chyba při volání API: %v", err)
	}

	// The API can report failure inside a 200 body.
	if env.Status == "error" {
		span.SetStatus(codes.Error, "upstream logical error")
		msg := env.Message
		if msg == "" {
			msg = msgUnknownError
		}
		return nil, errors.New(msg)
	}

	return &env, nil
}

// tokenSuffix returns the last four characters of the token for log output.
func tokenSuffix(token string) string {
	if len(token) <= 4 {
		return "..." + token
	}
	return "..." + token[len(token)-4:]
}
