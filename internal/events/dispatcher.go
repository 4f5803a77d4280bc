package events

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/utm-observer/backend/internal/infrastructure/journal"
)

// Outcome is the terminal state of one dispatch attempt. None of these ever
// surfaces to the request that triggered the notification.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeTimedOut  Outcome = "timed_out"
	OutcomeRejected  Outcome = "rejected"
	OutcomeSkipped   Outcome = "skipped"
)

const (
	eventsPath  = "/api/v1/events/"
	payloadVer  = "1"
	userAgent   = "UTM-Observer/1.0.0"
	contentType = "application/json"
)

// Config controls the outbound event API client.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	Enabled  bool
}

type notification struct {
	Stream        string `json:"stream"`
	Version       string `json:"version"`
	CorrelationID string `json:"correlation_id"`
}

// Dispatcher posts fire-and-forget notifications to the external event API.
// Delivery is at-most-once, best-effort: a timeout or non-2xx response is
// journaled and logged, nothing more.
type Dispatcher struct {
	cfg     Config
	client  *fasthttp.Client
	journal *journal.Store
	logger  *zap.Logger
}

// NewDispatcher builds a dispatcher. The journal may be nil, in which case
// attempts are only logged.
func NewDispatcher(cfg Config, store *journal.Store, logger *zap.Logger) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		cfg:     cfg,
		client:  &fasthttp.Client{Name: userAgent},
		journal: store,
		logger:  logger,
	}
}

// Enabled reports whether dispatch is configured and switched on.
func (d *Dispatcher) Enabled() bool {
	return d != nil && d.cfg.Enabled && d.cfg.Endpoint != ""
}

// Schedule detaches delivery from the calling request. The correlation ID is
// passed by value: the detached attempt must not read request-scoped state,
// which may be recycled once the response is sent.
func (d *Dispatcher) Schedule(stream Stream, correlationID, method, path string) {
	if !d.Enabled() {
		return
	}
	go d.Dispatch(stream, correlationID, method, path)
}

// Dispatch performs one delivery attempt synchronously and returns its
// terminal outcome. Exposed for the scheduler goroutine and for tests; the
// request path always goes through Schedule.
func (d *Dispatcher) Dispatch(stream Stream, correlationID, method, path string) Outcome {
	if !d.Enabled() {
		return OutcomeSkipped
	}

	body, err := json.Marshal(notification{
		Stream:        string(stream),
		Version:       payloadVer,
		CorrelationID: correlationID,
	})
	if err != nil {
		d.logger.Error("event payload encoding failed", zap.String("stream", string(stream)), zap.Error(err))
		return OutcomeRejected
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(d.cfg.Endpoint + eventsPath)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(contentType)
	req.Header.SetUserAgent(userAgent)
	req.SetBody(body)

	outcome := OutcomeDelivered
	detail := ""
	if err := d.client.DoTimeout(req, resp, d.cfg.Timeout); err != nil {
		detail = err.Error()
		if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
			outcome = OutcomeTimedOut
			d.logger.Warn("event dispatch timed out",
				zap.String("stream", string(stream)),
				zap.String("correlation_id", correlationID))
		} else {
			// Connection refused, DNS failure and the like are not timeouts.
			outcome = OutcomeRejected
			d.logger.Warn("event dispatch failed",
				zap.String("stream", string(stream)),
				zap.String("correlation_id", correlationID),
				zap.Error(err))
		}
	} else {
		switch resp.StatusCode() {
		case fasthttp.StatusOK, fasthttp.StatusCreated, fasthttp.StatusAccepted:
			d.logger.Info("event dispatched",
				zap.String("stream", string(stream)),
				zap.String("correlation_id", correlationID))
		default:
			outcome = OutcomeRejected
			detail = fasthttp.StatusMessage(resp.StatusCode())
			d.logger.Warn("event dispatch rejected",
				zap.String("stream", string(stream)),
				zap.String("correlation_id", correlationID),
				zap.Int("status", resp.StatusCode()))
		}
	}

	d.record(journal.Entry{
		Stream:        string(stream),
		CorrelationID: correlationID,
		Method:        method,
		Path:          path,
		Outcome:       string(outcome),
		Detail:        detail,
	})
	return outcome
}

func (d *Dispatcher) record(entry journal.Entry) {
	if d.journal == nil {
		return
	}
	if err := d.journal.Append(entry); err != nil {
		d.logger.Warn("event journal append failed", zap.Error(err))
	}
}
