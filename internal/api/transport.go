package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
)

// RequestIDHeader carries a per-request id for log correlation.
const RequestIDHeader = "X-Request-Id"

// TransportConfig configures NewTransport. HTTPClient must already carry the
// auth and debug round trippers; Transport only adds the fixed JSON headers.
type TransportConfig struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Transport issues requests against the service with go-resty. It performs
// no retries.
type Transport struct {
	rc  *resty.Client
	hc  *http.Client
	log zerolog.Logger
}

// NewTransport builds a Transport around cfg.HTTPClient.
func NewTransport(cfg TransportConfig) *Transport {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	rc := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		SetRetryCount(0).
		SetLogger(restyLogger{cfg.Logger})
	return &Transport{rc: rc, hc: hc, log: cfg.Logger}
}

// Do sends req and returns the raw status and body. Non-2xx statuses are not
// errors at this layer.
func (t *Transport) Do(ctx context.Context, req Request) (*Response, error) {
	r := t.rc.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString())
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		nerr := sdkerrors.NewNetworkError(describe(req.Method, req.Path), err)
		if k, ok := sdkerrors.KindOf(nerr); ok {
			networkErrorsTotal.WithLabelValues(kindLabel(k)).Inc()
		}
		return nil, nerr
	}

	requestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode())).Inc()
	t.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status_code", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("recallrai request")
	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}

// Close releases idle pooled connections.
func (t *Transport) Close() {
	t.hc.CloseIdleConnections()
}

func kindLabel(k sdkerrors.Kind) string {
	if k == sdkerrors.KindTimeout {
		return "timeout"
	}
	return "connection"
}

// restyLogger routes resty's internal messages to zerolog.
type restyLogger struct{ log zerolog.Logger }

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
