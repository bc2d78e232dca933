package main

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"trading-journal-go/internal/journal"

	"go.uber.org/zap"
)

// APIHandler holds dependencies for the web endpoints.
type APIHandler struct {
	log     *zap.Logger
	journal *journal.Journal
	tmpl    *template.Template
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, j *journal.Journal, tmpl *template.Template) *APIHandler {
	return &APIHandler{log: log, journal: j, tmpl: tmpl}
}

// dashboardData feeds the index template.
type dashboardData struct {
	Summary       journal.Summary
	ConfidencePct float64
	Recent        []recentRow
	Calendar      []journal.DaySummary
	Warning       string
}

type recentRow struct {
	Date          string
	Outcome       string
	Gain          float64
	WinningStreak int
	LosingStreak  int
	WinRate       float64
	State         string
}

// IndexHandler renders the dashboard.
func (h *APIHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	summary := h.journal.Summary()
	data := dashboardData{
		Summary:       summary,
		ConfidencePct: summary.Confidence * 100,
		Calendar:      h.journal.Calendar(),
		Warning:       r.URL.Query().Get("warn"),
	}
	for _, rec := range h.journal.RecentN(10) {
		outcome := "Lose"
		if rec.Outcome {
			outcome = "Win"
		}
		data.Recent = append(data.Recent, recentRow{
			Date:          rec.RecordedAt.Format("01/02/2006 15:04"),
			Outcome:       outcome,
			Gain:          rec.Gain,
			WinningStreak: rec.WinningStreak,
			LosingStreak:  rec.LosingStreak,
			WinRate:       rec.WinRate,
			State:         rec.State,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		h.log.Error("Failed to render dashboard", zap.Error(err))
	}
}

// SubmitHandler records a trade from the entry form and redirects back to
// the dashboard. Persistence failures surface as a warning banner, never as
// a failed submission: the trade is already in the log.
func (h *APIHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	var outcome bool
	switch r.PostFormValue("outcome") {
	case "win":
		outcome = true
	case "lose":
		outcome = false
	default:
		http.Error(w, "Outcome must be win or lose", http.StatusBadRequest)
		return
	}

	gain := 0.0
	if v := r.PostFormValue("gain"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "Gain must be a number", http.StatusBadRequest)
			return
		}
		gain = parsed
	}

	record, warnings := h.journal.Append(r.Context(), outcome, gain)
	h.log.Info("Trade recorded",
		zap.Bool("outcome", record.Outcome),
		zap.Float64("gain", record.Gain),
		zap.String("state", record.State),
	)

	target := "/"
	if len(warnings) > 0 {
		target = "/?warn=" + url.QueryEscape(warnings[0].Error())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// TradesHandler returns recent trades as JSON, newest first.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.journal.RecentN(limit))
}

// SummaryHandler returns the current streaks, win rate and prediction.
func (h *APIHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.journal.Summary())
}

// CalendarHandler returns the per-day aggregation.
func (h *APIHandler) CalendarHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.journal.Calendar())
}
