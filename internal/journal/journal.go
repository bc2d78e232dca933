package journal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trading-journal-go/internal/analyzer"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/sheet"
	"trading-journal-go/internal/store"

	"go.uber.org/zap"
)

// Journal owns the ordered trade log for the session. It is the single
// writer: handlers append through it and read derived values from it, and it
// fans each append out to the persistence collaborators best-effort. A
// failed write is reported but never rolls back the in-memory log.
type Journal struct {
	mu        sync.Mutex
	records   []models.TradeRecord
	cfg       analyzer.Config
	predictor analyzer.Predictor

	repo    *Repository           // nil disables the database
	sheets  sheet.ClientInterface // nil disables the spreadsheet mirror
	csvPath string                // empty disables the CSV snapshot

	logger *zap.Logger
	now    func() time.Time
}

// Summary is the dashboard view of the log: the latest derived fields plus
// the current prediction.
type Summary struct {
	TotalTrades   int            `json:"total_trades"`
	WinningStreak int            `json:"winning_streak"`
	LosingStreak  int            `json:"losing_streak"`
	WinRate       float64        `json:"win_rate"`
	State         analyzer.State `json:"state"`
	Confidence    float64        `json:"confidence"`
}

// New creates a journal. Any of repo, sheets and csvPath may be zero to
// disable that collaborator.
func New(cfg analyzer.Config, repo *Repository, sheets sheet.ClientInterface, csvPath string, logger *zap.Logger) (*Journal, error) {
	predictor, err := analyzer.NewPredictor(cfg)
	if err != nil {
		return nil, err
	}
	return &Journal{
		cfg:       cfg,
		predictor: predictor,
		repo:      repo,
		sheets:    sheets,
		csvPath:   csvPath,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Load restores the history: from the database when it has rows, otherwise
// from the legacy CSV file (which is then imported into the database).
// Streaks and win rate are recomputed over the loaded sequence; the stored
// State of each row stays as written.
func (j *Journal) Load(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.repo != nil {
		records, err := j.repo.All()
		if err != nil {
			return fmt.Errorf("failed to load history from database: %w", err)
		}
		if len(records) > 0 {
			j.records = records
			j.recomputeDerived()
			return nil
		}
	}

	if j.csvPath == "" {
		return nil
	}
	records, err := store.Load(j.csvPath)
	if err != nil {
		return fmt.Errorf("failed to load history file: %w", err)
	}
	j.records = records
	j.recomputeDerived()

	if j.repo != nil {
		for i := range j.records {
			if err := j.repo.Append(&j.records[i]); err != nil {
				return fmt.Errorf("failed to import history into database: %w", err)
			}
		}
	}
	return nil
}

// Append records a new trade. The stored state is the prediction made from
// the history as it stood before this trade; it is frozen from then on.
// The returned warnings are persistence failures the caller should surface;
// the local append has already succeeded when they are returned.
func (j *Journal) Append(ctx context.Context, outcome bool, gain float64) (models.TradeRecord, []error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	state, _ := j.predictor.Predict(j.samples())

	record := models.TradeRecord{
		RecordedAt: j.now(),
		Outcome:    outcome,
		Gain:       gain,
		State:      string(state),
	}
	j.records = append(j.records, record)
	j.recomputeDerived()
	record = j.records[len(j.records)-1]

	var warnings []error
	if j.repo != nil {
		if err := j.repo.Append(&j.records[len(j.records)-1]); err != nil {
			j.logger.Error("Failed to save trade to database", zap.Error(err))
			warnings = append(warnings, fmt.Errorf("database save failed: %w", err))
		}
	}
	if j.csvPath != "" {
		if err := store.Save(j.csvPath, j.records); err != nil {
			j.logger.Error("Failed to write history file", zap.Error(err))
			warnings = append(warnings, fmt.Errorf("history file write failed: %w", err))
		}
	}
	if j.sheets != nil {
		if err := j.sheets.AppendRow(ctx, sheet.RowFromRecord(record)); err != nil {
			j.logger.Error("Failed to mirror trade to sheet", zap.Error(err))
			warnings = append(warnings, fmt.Errorf("sheet mirror failed: %w", err))
		}
	}

	return record, warnings
}

// Records returns a copy of the log in insertion order.
func (j *Journal) Records() []models.TradeRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]models.TradeRecord, len(j.records))
	copy(out, j.records)
	return out
}

// RecentN returns up to the last n records, newest first.
func (j *Journal) RecentN(n int) []models.TradeRecord {
	j.mu.Lock()
	defer j.mu.Unlock()

	if n > len(j.records) {
		n = len(j.records)
	}
	out := make([]models.TradeRecord, 0, n)
	for i := len(j.records) - 1; i >= len(j.records)-n; i-- {
		out = append(out, j.records[i])
	}
	return out
}

// Summary returns the latest derived fields and the current prediction.
func (j *Journal) Summary() Summary {
	j.mu.Lock()
	defer j.mu.Unlock()

	state, confidence := j.predictor.Predict(j.samples())
	s := Summary{
		TotalTrades: len(j.records),
		State:       state,
		Confidence:  confidence,
	}
	if len(j.records) > 0 {
		last := j.records[len(j.records)-1]
		s.WinningStreak = last.WinningStreak
		s.LosingStreak = last.LosingStreak
		s.WinRate = last.WinRate
	}
	return s
}

// recomputeDerived refreshes streaks and win rate on every record from the
// outcome sequence. Stored states are left untouched. Callers hold the lock.
func (j *Journal) recomputeDerived() {
	outcomes := make([]bool, len(j.records))
	for i, r := range j.records {
		outcomes[i] = r.Outcome
	}
	wins, losses := analyzer.ComputeStreaks(outcomes)
	rates := analyzer.RollingWinRate(outcomes, j.cfg.WindowSize, j.cfg.ShortHistory)
	for i := range j.records {
		j.records[i].WinningStreak = wins[i]
		j.records[i].LosingStreak = losses[i]
		j.records[i].WinRate = rates[i]
	}
}

// samples converts the log to analyzer input. Callers hold the lock.
func (j *Journal) samples() []analyzer.Sample {
	samples := make([]analyzer.Sample, len(j.records))
	for i, r := range j.records {
		samples[i] = analyzer.Sample{Outcome: r.Outcome, State: analyzer.State(r.State)}
	}
	return samples
}
