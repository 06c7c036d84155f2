package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/repository"
	"TradePulse/internal/usecase"
	"TradePulse/pkg/cache"
	"TradePulse/pkg/logger"
)

type downMarket struct{}

func (downMarket) FetchCandles(context.Context, string, string, int) (models.CandleSeries, error) {
	return nil, errors.New("exchange unavailable")
}

func (downMarket) FetchContext(context.Context, string) (*models.MarketContext, error) {
	return nil, errors.New("exchange unavailable")
}

type nopMetrics struct{}

func (nopMetrics) RecordSignal(string, string)      {}
func (nopMetrics) RecordSuppression(string)         {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordConfidence(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)    {}

func newHandler(t *testing.T) (*SignalsEchoHandler, *echo.Echo) {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { mc.Close() })
	store := repository.NewCacheStateStore(mc)

	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	eval := usecase.NewEvaluator(downMarket{}, store, repository.NewStateLiquidationFeed(store), nil, nil, nopMetrics{}, nil, log, usecase.Config{})
	h := NewSignalsEchoHandler(log, usecase.NewBatchUseCase(eval), eval, []string{"BTCUSDT"})

	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestConfirmWithoutPendingPreview(t *testing.T) {
	_, e := newHandler(t)
	rec := do(e, http.MethodPost, "/api/confirm?symbol=BTCUSDT")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), models.ReasonNoPendingPreview) {
		t.Fatalf("expected NO_PENDING_PREVIEW in body: %s", rec.Body.String())
	}
}

func TestConfirmRequiresSymbol(t *testing.T) {
	_, e := newHandler(t)
	rec := do(e, http.MethodPost, "/api/confirm")
	if !strings.Contains(rec.Body.String(), `"status":400`) {
		t.Fatalf("expected validation failure envelope: %s", rec.Body.String())
	}
}

func TestLastSignalNotFound(t *testing.T) {
	_, e := newHandler(t)
	rec := do(e, http.MethodGet, "/api/signal/last?symbol=BTCUSDT")
	if !strings.Contains(rec.Body.String(), `"status":404`) {
		t.Fatalf("expected not-found envelope: %s", rec.Body.String())
	}
}

func TestEvaluateReportsPerSymbolErrors(t *testing.T) {
	_, e := newHandler(t)
	rec := do(e, http.MethodGet, "/api/evaluate")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "BTCUSDT") || !strings.Contains(body, "exchange unavailable") {
		t.Fatalf("expected per-symbol error for watchlist: %s", body)
	}
}
