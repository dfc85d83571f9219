package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/MineBot/bridge/internal/payload"
)

// Endpoint labels
const (
	EndpointChat   = "chat"
	EndpointReset  = "reset"
	EndpointHealth = "health"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	PlayerName string `json:"playerName"`
	PlayerUUID string `json:"playerUUID"`
	Message    string `json:"message"`
	PlayerX    *int   `json:"playerX,omitempty"`
	PlayerY    *int   `json:"playerY,omitempty"`
	PlayerZ    *int   `json:"playerZ,omitempty"`
}

// At attaches the player's position to the request.
func (r ChatRequest) At(pos game.Position) ChatRequest {
	x, y, z := pos.X, pos.Y, pos.Z
	r.PlayerX, r.PlayerY, r.PlayerZ = &x, &y, &z
	return r
}

// Options configures a Client.
type Options struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ChatTimeout    time.Duration
	ResetTimeout   time.Duration
	// RequestsPerSecond caps outbound requests; 0 means unlimited.
	RequestsPerSecond float64
	Logger            *zap.Logger
	Metrics           *monitoring.Metrics
	Tracer            *tracing.Tracer
}

// Client talks to the inference bridge service over HTTP+JSON.
// It never retries: a failed exchange is reported once and the player re-asks.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	opts    Options
	logger  *zap.Logger
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
}

// NewClient creates an inference client.
func NewClient(opts Options) *Client {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ChatTimeout <= 0 {
		opts.ChatTimeout = 45 * time.Second
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("bridge")

	// Pooled transport from retryablehttp; retries stay off.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	transport := retryClient.HTTPClient.Transport
	if t, ok := transport.(*http.Transport); ok {
		t.DialContext = (&net.Dialer{
			Timeout:   opts.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTransport(transport).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "MineBot-Bridge/1.0").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	breaker := resilience.New("inference", resilience.Settings{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsFailure: tripsBreaker,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	limit := rate.Inf
	burst := 0
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}

	return &Client{
		resty:   restyClient,
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
		opts:    opts,
		logger:  logger,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
	}
}

// BreakerState returns the inference circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// Chat sends one player query and decodes the typed reply.
// Transport failures wrap ErrUnreachable or ErrTimeout, or are a *StatusError;
// a reply that cannot be decoded is a *payload.DecodeError.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (payload.Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ChatTimeout)
	defer cancel()

	resp, err := c.exchange(ctx, EndpointChat, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(req).Post("/chat")
	})
	if err != nil {
		return nil, err
	}

	p, err := payload.Decode(resp.Body())
	if err != nil {
		c.metrics.RecordBridgeError(EndpointChat, "decode")
		return nil, err
	}
	return p, nil
}

// Reset clears the player's conversation on the inference side.
func (c *Client) Reset(ctx context.Context, playerUUID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ResetTimeout)
	defer cancel()

	_, err := c.exchange(ctx, EndpointReset, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("playerUUID", playerUUID).Post("/reset/{playerUUID}")
	})
	return err
}

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ConnectTimeout)
	defer cancel()

	_, err := c.exchange(ctx, EndpointHealth, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/health")
	})
	return err
}

// exchange runs one request through the limiter and breaker and normalizes its error.
func (c *Client) exchange(ctx context.Context, endpoint string, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.RecordBridgeError(endpoint, "rate_limited")
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	span, ctx := c.tracer.StartSpan(ctx, "inference."+endpoint)
	span.SetTag("endpoint", endpoint)
	defer func() {
		span.Finish()
		c.tracer.Submit(span)
	}()

	start := time.Now()
	timer := monitoring.NewTimer(c.metrics, endpoint)
	resp, err := resilience.Do(c.breaker, func() (*resty.Response, error) {
		req := c.resty.R().SetContext(ctx)
		tracing.Inject(ctx, func(k, v string) { req.SetHeader(k, v) })
		resp, err := send(req)
		if err != nil {
			return nil, classify(err)
		}
		if !resp.IsSuccess() {
			return resp, &StatusError{Endpoint: endpoint, Code: resp.StatusCode()}
		}
		return resp, nil
	})

	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode())
		span.SetStatus(resp.StatusCode())
	}
	timer.Stop(status)

	if err != nil {
		span.SetError(err)
		c.metrics.RecordBridgeError(endpoint, errorType(err))
		c.logger.Warn("Inference request failed",
			zap.String("endpoint", endpoint),
			zap.String("type", errorType(err)),
			zap.String("trace_id", string(span.TraceID)),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug("Inference request complete",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}
