package timekeeper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/platform/resilience"
	"github.com/rotaplan/rotaplan/internal/usecase"
)

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL: serverURL,
		Token:   "test-token",
		Timeout: 2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false,
		},
	})
}

func TestFetchMatchTimesDecodesReadings(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"matchId": "m1",
			"players": [
				{"playerId": "p1", "secondsByRole": {"def": 300, "GK": 120}, "goaliePeriods": 1},
				{"playerId": "  ", "secondsByRole": {"DEF": 100}},
				{"playerId": "p2", "secondsByRole": {"BENCH": 50, "ATT": -5, "MID": 200}}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	times, err := client.FetchMatchTimes(context.Background(), "m1")
	if err != nil {
		t.Fatalf("FetchMatchTimes: %v", err)
	}

	if gotPath != "/v1/matches/m1/times" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if len(times) != 2 {
		t.Fatalf("len(times) = %d, want 2 (blank player skipped)", len(times))
	}

	first := times[0]
	if first.PlayerID != "p1" || first.SecondsByRole[player.RoleDefender] != 300 {
		t.Fatalf("unexpected first reading: %+v", first)
	}
	if first.SecondsByRole[player.RoleGoalie] != 120 || first.GoaliePeriods != 1 {
		t.Fatalf("goalie reading not decoded: %+v", first)
	}

	second := times[1]
	if _, ok := second.SecondsByRole["BENCH"]; ok {
		t.Fatalf("unknown role must be dropped: %+v", second)
	}
	if second.SecondsByRole[player.RoleAttacker] != 0 {
		t.Fatalf("negative seconds must be dropped: %+v", second)
	}
	if second.SecondsByRole[player.RoleMidfielder] != 200 {
		t.Fatalf("unexpected second reading: %+v", second)
	}
}

func TestFetchMatchTimesNonRetryableStatus(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "no such match", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.maxRetries = 2

	_, err := client.FetchMatchTimes(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "status=404") {
		t.Fatalf("err = %v, want status=404", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, non-retryable status must not be retried", calls)
	}
}

func TestFetchMatchTimesRetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 2 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"matchId": "m1", "players": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.maxRetries = 2

	times, err := client.FetchMatchTimes(context.Background(), "m1")
	if err != nil {
		t.Fatalf("FetchMatchTimes: %v", err)
	}
	if len(times) != 0 {
		t.Fatalf("len(times) = %d, want 0", len(times))
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestFetchMatchTimesCircuitOpenMapsToDependencyUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchMatchTimes(context.Background(), "m1"); err == nil {
		t.Fatal("expected failure to trip the breaker")
	}

	_, err := client.FetchMatchTimes(context.Background(), "m1")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("err = %v, want ErrDependencyUnavailable once open", err)
	}
}

func TestFetchMatchTimesRequiresMatchID(t *testing.T) {
	client := newTestClient("http://localhost:0")

	if _, err := client.FetchMatchTimes(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank match id")
	}
}
