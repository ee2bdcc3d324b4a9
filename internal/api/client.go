package api

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/chatbtc/internal/config"
	"github.com/diogo/chatbtc/internal/models"
)

// HTTPDoer is the part of tls_client.HttpClient the answer client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AnswerClient posts questions to the answer service
type AnswerClient struct {
	httpClient HTTPDoer
	baseURL    string
	apiKey     string
	specHash   string
	pipeline   json.RawMessage
	timeout    time.Duration
	logger     *zap.Logger
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*AnswerClient)

// WithHTTPClient injects the transport (used by tests)
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *AnswerClient) {
		c.httpClient = doer
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *AnswerClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds every request. Zero disables the timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *AnswerClient) {
		c.timeout = timeout
	}
}

// WithPipeline replaces the provider/model/caching block sent with requests
func WithPipeline(pipeline json.RawMessage) ClientOption {
	return func(c *AnswerClient) {
		if len(pipeline) > 0 {
			c.pipeline = pipeline
		}
	}
}

// NewClient creates an AnswerClient from a validated configuration
func NewClient(cfg config.Config, opts ...ClientOption) (*AnswerClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := &AnswerClient{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		specHash: cfg.SpecHash,
		pipeline: models.DefaultPipelineConfig,
		timeout:  cfg.Timeout,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Request deadlines come from the caller's context; the transport
		// itself never times out.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Close marks the client closed; later requests fail immediately
func (c *AnswerClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *AnswerClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// BaseURL returns the configured endpoint
func (c *AnswerClient) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout (zero means none)
func (c *AnswerClient) Timeout() time.Duration {
	return c.timeout
}
