package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"trading-journal-go/internal/models"
)

// ErrDataFormat indicates a history file whose rows cannot be coerced to the
// canonical trade record fields. It is raised by the loader; malformed data
// never reaches the analyzer.
var ErrDataFormat = errors.New("malformed trade history data")

// timeLayout matches the timestamps the app has always written.
const timeLayout = "01/02/2006 15:04"

// header is the canonical column set, in write order.
var header = []string{"Date", "Win/Lose", "Gain", "Winning Streak", "Losing Streak", "WinRate", "Trading State"}

// columnAliases maps normalized legacy column names to canonical ones. Older
// exports spelled several columns differently (including the "Loosing"
// misspelling), and a loader has to accept them all.
var columnAliases = map[string]string{
	"date":           "date",
	"recordedat":     "date",
	"timestamp":      "date",
	"win/lose":       "outcome",
	"winlose":        "outcome",
	"outcome":        "outcome",
	"gain":           "gain",
	"gains":          "gain",
	"winningstreak":  "winning_streak",
	"winningstreaks": "winning_streak",
	"losingstreak":   "losing_streak",
	"loosingstreak":  "losing_streak",
	"loosingstreaks": "losing_streak",
	"winrate":        "win_rate",
	"tradingstate":   "state",
	"state":          "state",
}

// Load reads the trade history CSV at path. A missing file is not an error;
// it yields an empty history. Rows with a non-binary outcome cell are
// rejected with ErrDataFormat.
func Load(path string) ([]models.TradeRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]models.TradeRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Save writes the full history to path with the canonical header.
func Save(path string, records []models.TradeRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write history header: %w", err)
	}

	for _, r := range records {
		outcome := "0"
		if r.Outcome {
			outcome = "1"
		}
		row := []string{
			r.RecordedAt.Format(timeLayout),
			outcome,
			strconv.FormatFloat(r.Gain, 'f', 2, 64),
			strconv.Itoa(r.WinningStreak),
			strconv.Itoa(r.LosingStreak),
			strconv.FormatFloat(r.WinRate, 'f', -1, 64),
			r.State,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write history row: %w", err)
		}
	}
	return writer.Error()
}

// mapColumns resolves a header row to canonical column indexes.
func mapColumns(headerRow []string) (map[string]int, error) {
	columns := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
		canonical, ok := columnAliases[normalized]
		if !ok {
			continue // unknown columns are ignored, not fatal
		}
		columns[canonical] = i
	}
	if _, ok := columns["outcome"]; !ok {
		return nil, fmt.Errorf("%w: no outcome column in header %v", ErrDataFormat, headerRow)
	}
	return columns, nil
}

func parseRow(row []string, columns map[string]int) (models.TradeRecord, error) {
	var record models.TradeRecord

	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	outcome, err := parseOutcome(cell("outcome"))
	if err != nil {
		return record, err
	}
	record.Outcome = outcome

	if v := cell("date"); v != "" {
		ts, err := time.Parse(timeLayout, v)
		if err != nil {
			if ts, err = time.Parse(time.RFC3339, v); err != nil {
				return record, fmt.Errorf("%w: unparseable date %q", ErrDataFormat, v)
			}
		}
		record.RecordedAt = ts
	}

	if v := cell("gain"); v != "" {
		gain, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return record, fmt.Errorf("%w: unparseable gain %q", ErrDataFormat, v)
		}
		record.Gain = gain
	}

	// Derived columns are carried through as stored; the journal
	// recomputes streaks and win rate after loading anyway.
	if v := cell("winning_streak"); v != "" {
		record.WinningStreak, _ = strconv.Atoi(v)
	}
	if v := cell("losing_streak"); v != "" {
		record.LosingStreak, _ = strconv.Atoi(v)
	}
	if v := cell("win_rate"); v != "" {
		record.WinRate, _ = strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	}
	record.State = cell("state")

	return record, nil
}

// parseOutcome coerces the historical outcome spellings to a strict binary.
func parseOutcome(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "win", "true", "w":
		return true, nil
	case "0", "lose", "loss", "false", "l":
		return false, nil
	default:
		return false, fmt.Errorf("%w: outcome %q is not binary", ErrDataFormat, value)
	}
}
