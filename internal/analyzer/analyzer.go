package analyzer

// State is the categorical summary of recent trading performance.
type State string

const (
	StateGood    State = "Good"
	StateNeutral State = "Neutral"
	StateBad     State = "Bad"
)

// ShortHistoryPolicy controls the rolling win rate when fewer than a full
// window of trades exists. Both behaviors shipped in different revisions of
// the app, so the choice is explicit.
type ShortHistoryPolicy string

const (
	// ShrinkingWindow averages over the trades available so far, e.g. a
	// single win yields 100%.
	ShrinkingWindow ShortHistoryPolicy = "shrink"
	// NeutralUntilFull reports 50% until a full window of trades exists.
	NeutralUntilFull ShortHistoryPolicy = "neutral"
)

// Config holds the analyzer tunables. Revisions of the app disagreed on the
// window size (5, 6 or 10) and the good-state win rate cutoff (45 or 55);
// DefaultConfig carries the values of the longest-lived revision.
type Config struct {
	WindowSize           int
	GoodWinRateThreshold float64
	StreakThreshold      int
	Predictor            string
	ShortHistory         ShortHistoryPolicy
}

// DefaultConfig returns the documented default analyzer configuration.
func DefaultConfig() Config {
	return Config{
		WindowSize:           6,
		GoodWinRateThreshold: 45,
		StreakThreshold:      2,
		Predictor:            PredictorThreshold,
		ShortHistory:         ShrinkingWindow,
	}
}

// Sample is one historical trade as the analyzer sees it: the raw outcome
// plus the state that was stored when the trade was appended. Only the
// markov predictor consults the stored state.
type Sample struct {
	Outcome bool // true = win
	State   State
}

// Outcomes extracts the raw outcome sequence from a sample history.
func Outcomes(history []Sample) []bool {
	outcomes := make([]bool, len(history))
	for i, s := range history {
		outcomes[i] = s.Outcome
	}
	return outcomes
}

// ComputeStreaks returns, for each index, the running winning and losing
// streak ending there. Exactly one of the two is nonzero at every index.
func ComputeStreaks(outcomes []bool) (wins, losses []int) {
	wins = make([]int, len(outcomes))
	losses = make([]int, len(outcomes))
	var winStreak, lossStreak int
	for i, won := range outcomes {
		if won {
			winStreak++
			lossStreak = 0
		} else {
			lossStreak++
			winStreak = 0
		}
		wins[i] = winStreak
		losses[i] = lossStreak
	}
	return wins, losses
}

// RollingWinRate returns the trailing-window win rate in percent for each
// index. Indices with fewer than window prior trades follow the given
// short-history policy.
func RollingWinRate(outcomes []bool, window int, policy ShortHistoryPolicy) []float64 {
	rates := make([]float64, len(outcomes))
	var winsInWindow int
	for i, won := range outcomes {
		if won {
			winsInWindow++
		}
		if i >= window && outcomes[i-window] {
			winsInWindow--
		}
		span := i + 1
		if span > window {
			span = window
		}
		if policy == NeutralUntilFull && i+1 < window {
			rates[i] = 50
			continue
		}
		rates[i] = float64(winsInWindow) / float64(span) * 100
	}
	return rates
}

// winRateOverTail is the mean win rate in percent over at most the last n
// outcomes, shrinking when fewer exist. Returns 50 for an empty sequence.
func winRateOverTail(outcomes []bool, n int) float64 {
	if len(outcomes) == 0 {
		return 50
	}
	start := len(outcomes) - n
	if start < 0 {
		start = 0
	}
	tail := outcomes[start:]
	wins := 0
	for _, won := range tail {
		if won {
			wins++
		}
	}
	return float64(wins) / float64(len(tail)) * 100
}
