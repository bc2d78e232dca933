package analyzer

// stateOrder fixes both the table layout and the argmax tie-break: on equal
// adjusted weights the earlier state wins (Good > Neutral > Bad).
var stateOrder = [3]State{StateGood, StateNeutral, StateBad}

// markovBase holds the base transition percentages from each state (row) to
// each state (column), in stateOrder. Rows need not sum to exactly 100; the
// confidence is normalized against the adjusted row sum.
var markovBase = [3][3]float64{
	{86.79, 13.21, 0.00},  // from Good
	{33.33, 33.34, 33.33}, // from Neutral
	{10.00, 30.00, 60.00}, // from Bad
}

// Nudge weights applied on top of the base table.
const (
	nudgePerRecentLoss   = 4.0 // per loss among the last 3 outcomes
	nudgePerStreakLoss   = 3.0 // per trade of the current losing streak, once it reaches 2
	nudgeWinRate         = 8.0 // when the 10-trade win rate leaves the 40..60 band
	markovWinRateWindow  = 10
	markovRecentOutcomes = 3
)

// MarkovPredictor conditions the next state on the previously stored state
// via a fixed transition table, nudged by recent losses, the current losing
// streak, and the win rate over the last ten trades. This is the only
// predictor with genuine state-machine behavior.
type MarkovPredictor struct{}

func (p *MarkovPredictor) Name() string { return PredictorMarkov }

func (p *MarkovPredictor) Predict(history []Sample) (State, float64) {
	if len(history) == 0 {
		return StateNeutral, confidenceNeutral
	}

	prev := history[len(history)-1].State
	row := markovBase[stateIndex(prev)]

	outcomes := Outcomes(history)

	recentLosses := 0
	start := len(outcomes) - markovRecentOutcomes
	if start < 0 {
		start = 0
	}
	for _, won := range outcomes[start:] {
		if !won {
			recentLosses++
		}
	}
	row[stateIndex(StateBad)] += nudgePerRecentLoss * float64(recentLosses)

	_, losses := ComputeStreaks(outcomes)
	if streak := losses[len(losses)-1]; streak >= 2 {
		row[stateIndex(StateBad)] += nudgePerStreakLoss * float64(streak)
	}

	rate := winRateOverTail(outcomes, markovWinRateWindow)
	if rate > 60 {
		row[stateIndex(StateGood)] += nudgeWinRate
	} else if rate < 40 {
		row[stateIndex(StateBad)] += nudgeWinRate
	}

	best := 0
	rowSum := row[0]
	for i := 1; i < len(row); i++ {
		rowSum += row[i]
		if row[i] > row[best] {
			best = i
		}
	}

	confidence := row[best] / rowSum
	if confidence > 1 {
		confidence = 1
	}
	return stateOrder[best], confidence
}

func stateIndex(s State) int {
	for i, candidate := range stateOrder {
		if candidate == s {
			return i
		}
	}
	return 1 // unknown stored states fall back to Neutral
}
