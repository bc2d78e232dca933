package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkovPredictor_EmptyHistory(t *testing.T) {
	p := &MarkovPredictor{}
	state, confidence := p.Predict(nil)
	assert.Equal(t, StateNeutral, state)
	assert.InDelta(t, 0.65, confidence, 1e-9)
}

func TestMarkovPredictor_GoodStreakStaysGood(t *testing.T) {
	// From Good the base table already favors Good; an all-win history
	// adds the high-win-rate nudge on top.
	history := []Sample{
		{Outcome: w, State: StateNeutral},
		{Outcome: w, State: StateGood},
		{Outcome: w, State: StateGood},
	}

	p := &MarkovPredictor{}
	state, confidence := p.Predict(history)

	assert.Equal(t, StateGood, state)
	// Row from Good: {86.79 + 8, 13.21, 0}, argmax 94.79 over a 108 sum.
	assert.InDelta(t, 94.79/108.0, confidence, 1e-9)
}

func TestMarkovPredictor_DeepLossStreakReinforcesBad(t *testing.T) {
	history := make([]Sample, 5)
	for i := range history {
		history[i] = Sample{Outcome: l, State: StateBad}
	}

	p := &MarkovPredictor{}
	state, confidence := p.Predict(history)

	assert.Equal(t, StateBad, state)

	// Row from Bad: base {10, 30, 60}, plus 3 recent losses (+12),
	// a losing streak of 5 (+15), and a 0% ten-trade win rate (+8).
	adjustedBad := 60.0 + 12 + 15 + 8
	assert.Greater(t, adjustedBad, markovBase[2][2], "nudges must strictly raise Bad->Bad")
	assert.InDelta(t, adjustedBad/(10+30+adjustedBad), confidence, 1e-9)
}

func TestMarkovPredictor_NeutralTieBreak(t *testing.T) {
	// From Neutral with no nudges the row is {33.33, 33.34, 33.33}:
	// Neutral wins on weight. A steady 50% win rate with a winning tail
	// triggers no nudge.
	history := []Sample{
		{Outcome: l, State: StateNeutral},
		{Outcome: l, State: StateNeutral},
		{Outcome: l, State: StateBad},
		{Outcome: w, State: StateBad},
		{Outcome: w, State: StateNeutral},
		{Outcome: w, State: StateNeutral},
	}

	p := &MarkovPredictor{}
	state, confidence := p.Predict(history)

	assert.Equal(t, StateNeutral, state)
	assert.InDelta(t, 33.34/100.0, confidence, 1e-9)
}

func TestMarkovPredictor_Deterministic(t *testing.T) {
	history := []Sample{
		{Outcome: w, State: StateNeutral},
		{Outcome: l, State: StateGood},
		{Outcome: l, State: StateNeutral},
	}

	p := &MarkovPredictor{}
	state1, conf1 := p.Predict(history)
	state2, conf2 := p.Predict(history)

	assert.Equal(t, state1, state2)
	assert.Equal(t, conf1, conf2)
}
