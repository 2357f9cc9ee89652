package cobrowse

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const defaultEventBuffer = 64

// API attaches contexts to embedding surfaces of one cobrowse service.
type API struct {
	endpoint    string
	logger      *zap.Logger
	dialer      *websocket.Dialer
	http        *http.Client
	token       string
	eventBuffer int
}

// Option configures an API.
type Option func(*API)

// WithLogger sets the logger used by the API and its contexts.
func WithLogger(logger *zap.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(a *API) {
		if d != nil {
			a.dialer = d
		}
	}
}

// WithHTTPClient overrides the client used for REST lookups.
func WithHTTPClient(c *http.Client) Option {
	return func(a *API) {
		if c != nil {
			a.http = c
		}
	}
}

// WithToken sets the bearer token sent with REST lookups.
func WithToken(token string) Option {
	return func(a *API) {
		a.token = token
	}
}

// WithEventBuffer sets the capacity of each context's event channel.
func WithEventBuffer(n int) Option {
	return func(a *API) {
		if n > 0 {
			a.eventBuffer = n
		}
	}
}

// NewAPI creates a client for the service at endpoint (e.g.
// "https://cobrowse.example.com").
func NewAPI(endpoint string, opts ...Option) *API {
	a := &API{
		endpoint:    endpoint,
		logger:      zap.NewNop(),
		dialer:      &websocket.Dialer{HandshakeTimeout: 15 * time.Second},
		http:        &http.Client{Timeout: 10 * time.Second},
		eventBuffer: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Endpoint returns the service base URL.
func (a *API) Endpoint() string {
	return a.endpoint
}

// AttachContext binds a new Context to the embedding surface. The
// returned context is live until Destroy is called or the service drops
// the connection.
func (a *API) AttachContext(ctx context.Context, surface string) (*Context, error) {
	target, err := dialURL(surface)
	if err != nil {
		return nil, err
	}

	conn, resp, err := a.dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("attach context: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("attach context: %w", err)
	}

	a.logger.Info("cobrowse context attached", zap.String("endpoint", a.endpoint))
	return newContext(conn, a.logger, a.eventBuffer), nil
}
