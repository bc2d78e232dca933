package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// w and l keep the outcome tables readable.
const (
	w = true
	l = false
)

func TestComputeStreaks(t *testing.T) {
	testCases := []struct {
		name           string
		outcomes       []bool
		expectedWins   []int
		expectedLosses []int
	}{
		{
			name:           "Empty input",
			outcomes:       []bool{},
			expectedWins:   []int{},
			expectedLosses: []int{},
		},
		{
			name:           "Single win",
			outcomes:       []bool{w},
			expectedWins:   []int{1},
			expectedLosses: []int{0},
		},
		{
			name:           "Alternating outcomes reset the opposing streak",
			outcomes:       []bool{w, l, w, l},
			expectedWins:   []int{1, 0, 1, 0},
			expectedLosses: []int{0, 1, 0, 1},
		},
		{
			name:           "Runs accumulate and reset to one after a flip",
			outcomes:       []bool{w, w, w, l, l, w},
			expectedWins:   []int{1, 2, 3, 0, 0, 1},
			expectedLosses: []int{0, 0, 0, 1, 2, 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wins, losses := ComputeStreaks(tc.outcomes)
			assert.Equal(t, tc.expectedWins, wins)
			assert.Equal(t, tc.expectedLosses, losses)
		})
	}
}

func TestComputeStreaks_ExactlyOneCounterNonzero(t *testing.T) {
	outcomes := []bool{w, l, l, w, w, w, l, w, l, l, l, w}
	wins, losses := ComputeStreaks(outcomes)

	for i := range outcomes {
		if wins[i] > 0 {
			assert.Zero(t, losses[i], "index %d", i)
		} else {
			assert.Positive(t, losses[i], "index %d", i)
		}
	}
}

func TestRollingWinRate(t *testing.T) {
	testCases := []struct {
		name     string
		outcomes []bool
		window   int
		policy   ShortHistoryPolicy
		expected []float64
	}{
		{
			name:     "Empty input",
			outcomes: []bool{},
			window:   6,
			policy:   ShrinkingWindow,
			expected: []float64{},
		},
		{
			name:     "Shrinking window yields 100 after a single win",
			outcomes: []bool{w},
			window:   6,
			policy:   ShrinkingWindow,
			expected: []float64{100},
		},
		{
			name:     "Shrinking window over a mixed prefix",
			outcomes: []bool{w, l, w},
			window:   6,
			policy:   ShrinkingWindow,
			expected: []float64{100, 50, 100.0 / 1.5},
		},
		{
			name:     "Neutral policy holds 50 until the window fills",
			outcomes: []bool{w, w, w},
			window:   3,
			policy:   NeutralUntilFull,
			expected: []float64{50, 50, 100},
		},
		{
			name:     "Old outcomes fall out of the window",
			outcomes: []bool{l, l, l, w, w, w},
			window:   3,
			policy:   ShrinkingWindow,
			expected: []float64{0, 0, 0, 100.0 / 3, 200.0 / 3, 100},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rates := RollingWinRate(tc.outcomes, tc.window, tc.policy)
			assert.Len(t, rates, len(tc.expected))
			for i := range tc.expected {
				assert.InDelta(t, tc.expected[i], rates[i], 1e-9, "index %d", i)
			}
		})
	}
}

func TestRollingWinRate_Saturated(t *testing.T) {
	allWins := make([]bool, 20)
	allLosses := make([]bool, 20)
	for i := range allWins {
		allWins[i] = w
	}

	winRates := RollingWinRate(allWins, 6, ShrinkingWindow)
	lossRates := RollingWinRate(allLosses, 6, ShrinkingWindow)

	for i := 5; i < 20; i++ {
		assert.Equal(t, 100.0, winRates[i])
		assert.Equal(t, 0.0, lossRates[i])
	}
}

func TestDerivedFields_Idempotent(t *testing.T) {
	outcomes := []bool{w, l, l, w, w, w, l, w}

	wins1, losses1 := ComputeStreaks(outcomes)
	wins2, losses2 := ComputeStreaks(outcomes)
	assert.Equal(t, wins1, wins2)
	assert.Equal(t, losses1, losses2)

	rates1 := RollingWinRate(outcomes, 6, ShrinkingWindow)
	rates2 := RollingWinRate(outcomes, 6, ShrinkingWindow)
	assert.Equal(t, rates1, rates2)
}
