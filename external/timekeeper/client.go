package timekeeper

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/platform/logging"
	"github.com/rotaplan/rotaplan/internal/platform/resilience"
	"github.com/rotaplan/rotaplan/internal/usecase"
)

// Client reads cumulative per-player time from the sideline timekeeper
// app. Readings are monotonic per match, so concurrent fetches for the
// same match are collapsed through a single flight.

var errTimekeeperTransient = crerr.New("timekeeper transient failure")

const maxResponseBytes = 1 << 20

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBytes,
		}
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type playerTimeItem struct {
	PlayerID      string         `json:"playerId"`
	SecondsByRole map[string]int `json:"secondsByRole"`
	GoaliePeriods int            `json:"goaliePeriods"`
}

type matchTimesEnvelope struct {
	MatchID string           `json:"matchId"`
	Players []playerTimeItem `json:"players"`
}

// FetchMatchTimes implements usecase.TimekeeperProvider.
func (c *Client) FetchMatchTimes(ctx context.Context, matchID string) ([]usecase.ExternalPlayerTime, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("match id is required")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "timekeeper circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: timekeeper is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + "/v1/matches/" + url.PathEscape(matchID) + "/times"

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if stderrors.Is(reqErr, errTimekeeperTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var envelope matchTimesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode timekeeper payload: %w", err)
	}

	return mapPlayerTimes(envelope.Players), nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := c.doOnce(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errTimekeeperTransient) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "timekeeper request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errTimekeeperTransient, err)
	}

	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		// Body is pooled with the response; copy it out before release.
		return append([]byte(nil), resp.Body()...), nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if isRetryableStatus(status) {
		return nil, fmt.Errorf("%w: timekeeper status=%d body=%s", errTimekeeperTransient, status, abbreviateBody(body))
	}
	return nil, fmt.Errorf("timekeeper status=%d body=%s", status, abbreviateBody(body))
}

func mapPlayerTimes(items []playerTimeItem) []usecase.ExternalPlayerTime {
	out := make([]usecase.ExternalPlayerTime, 0, len(items))
	for _, item := range items {
		playerID := strings.TrimSpace(item.PlayerID)
		if playerID == "" {
			continue
		}

		secondsByRole := make(map[player.Role]int, len(item.SecondsByRole))
		for role, seconds := range item.SecondsByRole {
			normalized := player.Role(strings.ToUpper(strings.TrimSpace(role)))
			if _, ok := player.AllRoles[normalized]; !ok {
				continue
			}
			if seconds < 0 {
				continue
			}
			secondsByRole[normalized] += seconds
		}

		out = append(out, usecase.ExternalPlayerTime{
			PlayerID:      playerID,
			SecondsByRole: secondsByRole,
			GoaliePeriods: maxInt(item.GoaliePeriods, 0),
		})
	}
	return out
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}

func abbreviateBody(body string) string {
	const limit = 512
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "...(truncated)"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
