package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rotaplan/rotaplan/internal/platform/resilience"
	"github.com/rotaplan/rotaplan/internal/usecase"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookPublisherConfig struct {
	WebhookURL     string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher pushes rotation-plan-ready events to the coach's
// companion app. Delivery is best effort; callers treat failures as
// non-fatal.
type WebhookPublisher struct {
	client         *http.Client
	webhookURL     string
	token          string
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, logger *slog.Logger) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookPublisher{
		client: &http.Client{
			Timeout: timeout,
		},
		webhookURL:     strings.TrimSpace(cfg.WebhookURL),
		token:          strings.TrimSpace(cfg.Token),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type planReadyEvent struct {
	Event         string   `json:"event"`
	MatchID       string   `json:"matchId"`
	TeamID        string   `json:"teamId"`
	Period        int      `json:"period"`
	GoalieID      string   `json:"goalieId"`
	NextOff       string   `json:"nextOff,omitempty"`
	RotationQueue []string `json:"rotationQueue,omitempty"`
	Degraded      bool     `json:"degraded,omitempty"`
}

// PublishPlanReady implements usecase.PlanNotifier.
func (p *WebhookPublisher) PublishPlanReady(ctx context.Context, rec usecase.MatchRecommendation) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "webhook circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("plan webhook is temporarily unavailable: %w", err)
		}
	}

	webhookURL, err := validateHTTPURL(p.webhookURL)
	if err != nil {
		return crerr.Wrap(err, "invalid NOTIFY_WEBHOOK_URL")
	}

	event := planReadyEvent{
		Event:         "plan.ready",
		MatchID:       rec.MatchID,
		TeamID:        rec.TeamID,
		Period:        rec.Period,
		GoalieID:      rec.Recommendation.Formation.GoalieID,
		NextOff:       rec.Recommendation.NextOff,
		RotationQueue: rec.Recommendation.RotationQueue,
		Degraded:      rec.Degraded,
	}

	body, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrap(err, "marshal plan ready event")
	}
	preview := buildDeliveryPreview(webhookURL, string(body), p.token != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notify.webhook_url", webhookURL),
			attribute.String("notify.event", event.Event),
			attribute.String("notify.match_id", event.MatchID),
			attribute.String("notify.request_curl_preview", preview),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: deliver plan ready event match_id=%s: %v", errWebhookTransient, event.MatchID, err)
		p.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		callErr := fmt.Errorf(
			"deliver plan ready event status=%d match_id=%s body=%s",
			resp.StatusCode,
			event.MatchID,
			strings.TrimSpace(string(raw)),
		)
		if isRetryableStatus(resp.StatusCode) {
			callErr = fmt.Errorf("%w: %v", errWebhookTransient, callErr)
		}
		p.recordCircuitResult(callErr)
		return callErr
	}

	p.logger.InfoContext(ctx, "plan ready event delivered", "match_id", event.MatchID, "period", event.Period)
	p.recordCircuitResult(nil)
	return nil
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return candidate, nil
}

func buildDeliveryPreview(webhookURL, body string, withAuth bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(webhookURL))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	if withAuth {
		appendPart("-H")
		appendPart(shellQuote("Authorization: Bearer ***"))
	}
	appendPart("-d")
	appendPart(shellQuote(truncateForLog(body, 4096)))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (p *WebhookPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errWebhookTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
