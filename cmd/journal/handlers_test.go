package main

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"trading-journal-go/internal/analyzer"
	"trading-journal-go/internal/journal"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// setupHandler builds a handler over an in-memory journal with no
// persistence collaborators.
func setupHandler(t *testing.T) *APIHandler {
	t.Helper()

	j, err := journal.New(analyzer.DefaultConfig(), nil, nil, "", zap.NewNop())
	assert.NoError(t, err)

	tmpl, err := template.ParseFiles("../../web/templates/index.html")
	assert.NoError(t, err)

	return NewAPIHandler(zap.NewNop(), j, tmpl)
}

func submit(t *testing.T, h *APIHandler, outcome, gain string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"outcome": {outcome}}
	if gain != "" {
		form.Set("gain", gain)
	}
	req := httptest.NewRequest(http.MethodPost, "/trades", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.SubmitHandler(rec, req)
	return rec
}

func TestSubmitHandler(t *testing.T) {
	t.Run("RecordsTradeAndRedirects", func(t *testing.T) {
		h := setupHandler(t)

		rec := submit(t, h, "win", "42.50")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		records := h.journal.Records()
		assert.Len(t, records, 1)
		assert.True(t, records[0].Outcome)
		assert.Equal(t, 42.5, records[0].Gain)
	})

	t.Run("GainIsOptional", func(t *testing.T) {
		h := setupHandler(t)

		rec := submit(t, h, "lose", "")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		records := h.journal.Records()
		assert.Len(t, records, 1)
		assert.Zero(t, records[0].Gain)
	})

	t.Run("RejectsNonBinaryOutcome", func(t *testing.T) {
		h := setupHandler(t)

		rec := submit(t, h, "maybe", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, h.journal.Records())
	})

	t.Run("RejectsUnparseableGain", func(t *testing.T) {
		h := setupHandler(t)

		rec := submit(t, h, "win", "lots")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("RejectsGet", func(t *testing.T) {
		h := setupHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/trades", nil)
		rec := httptest.NewRecorder()
		h.SubmitHandler(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestIndexHandler(t *testing.T) {
	h := setupHandler(t)
	submit(t, h, "win", "10")
	submit(t, h, "win", "20")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.IndexHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Good")           // two straight wins predict Good
	assert.Contains(t, body, "Confidence: 90") // at 0.90
}

func TestSummaryHandler(t *testing.T) {
	h := setupHandler(t)
	submit(t, h, "win", "")
	submit(t, h, "win", "")

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec := httptest.NewRecorder()
	h.SummaryHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var summary journal.Summary
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 2, summary.TotalTrades)
	assert.Equal(t, analyzer.StateGood, summary.State)
	assert.Equal(t, 2, summary.WinningStreak)
}

func TestTradesHandler_LimitAndOrder(t *testing.T) {
	h := setupHandler(t)
	submit(t, h, "lose", "1")
	submit(t, h, "win", "2")
	submit(t, h, "win", "3")

	req := httptest.NewRequest(http.MethodGet, "/api/trades?limit=2", nil)
	rec := httptest.NewRecorder()
	h.TradesHandler(rec, req)

	var trades []struct {
		Gain float64 `json:"gain"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&trades))
	assert.Len(t, trades, 2)
	assert.Equal(t, 3.0, trades[0].Gain) // newest first
	assert.Equal(t, 2.0, trades[1].Gain)
}

func TestCalendarHandler(t *testing.T) {
	h := setupHandler(t)
	submit(t, h, "win", "10")
	submit(t, h, "lose", "-4")

	req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	rec := httptest.NewRecorder()
	h.CalendarHandler(rec, req)

	var days []journal.DaySummary
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&days))
	assert.Len(t, days, 1)
	assert.Equal(t, 2, days[0].Trades)
	assert.Equal(t, 0, days[0].NetWins)
	assert.InDelta(t, 6.0, days[0].NetGain, 1e-9)
}
