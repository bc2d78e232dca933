package analyzer

import "fmt"

// Predictor names accepted in the configuration.
const (
	PredictorThreshold   = "threshold"
	PredictorFixedWindow = "window5"
	PredictorMarkov      = "markov"
)

const (
	confidenceGood    = 0.90
	confidenceNeutral = 0.65
	confidenceBad     = 0.95

	// The bad-state win rate cutoff never changed across revisions,
	// unlike the good-state one.
	badWinRateCutoff = 45
)

// Predictor derives the next trading state from an ordered trade history.
// Implementations are pure: the same history always yields the same result.
type Predictor interface {
	// Name returns the unique name of the predictor.
	Name() string

	// Predict returns the next state and a confidence in (0,1].
	Predict(history []Sample) (State, float64)
}

// NewPredictor selects a predictor implementation by its configured name.
func NewPredictor(cfg Config) (Predictor, error) {
	switch cfg.Predictor {
	case PredictorThreshold, "":
		return &ThresholdPredictor{cfg: cfg}, nil
	case PredictorFixedWindow:
		return &FixedWindowPredictor{}, nil
	case PredictorMarkov:
		return &MarkovPredictor{}, nil
	default:
		return nil, fmt.Errorf("unknown predictor %q", cfg.Predictor)
	}
}

// ThresholdPredictor is the baseline rule: a short losing streak or a weak
// win rate means Bad, a short winning streak with a strong win rate means
// Good, anything else is Neutral.
type ThresholdPredictor struct {
	cfg Config
}

func (p *ThresholdPredictor) Name() string { return PredictorThreshold }

func (p *ThresholdPredictor) Predict(history []Sample) (State, float64) {
	if len(history) == 0 {
		return StateNeutral, confidenceNeutral
	}

	outcomes := Outcomes(history)
	wins, losses := ComputeStreaks(outcomes)
	rates := RollingWinRate(outcomes, p.cfg.WindowSize, p.cfg.ShortHistory)

	last := len(outcomes) - 1
	switch {
	case losses[last] >= p.cfg.StreakThreshold || rates[last] < badWinRateCutoff:
		return StateBad, confidenceBad
	case wins[last] >= p.cfg.StreakThreshold && rates[last] > p.cfg.GoodWinRateThreshold:
		return StateGood, confidenceGood
	default:
		return StateNeutral, confidenceNeutral
	}
}

// FixedWindowPredictor looks at exactly the last five outcomes and nothing
// else. With fewer than five trades it has no opinion.
type FixedWindowPredictor struct{}

const fixedWindowSize = 5

func (p *FixedWindowPredictor) Name() string { return PredictorFixedWindow }

func (p *FixedWindowPredictor) Predict(history []Sample) (State, float64) {
	if len(history) < fixedWindowSize {
		return StateNeutral, confidenceNeutral
	}

	outcomes := Outcomes(history)
	rate := winRateOverTail(outcomes, fixedWindowSize)
	switch {
	case rate > 50:
		return StateGood, confidenceGood
	case rate < 50:
		return StateBad, confidenceBad
	default:
		return StateNeutral, confidenceNeutral
	}
}
