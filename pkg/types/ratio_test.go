package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioValue(t *testing.T) {
	tests := []struct {
		name      string
		ratio     Ratio
		wantValue float64
		wantOK    bool
	}{
		{"no barrier observed", Ratio{SafeMoves: 20}, 0, false},
		{"closed barrier", Ratio{SafeMoves: 0, Checkmates: 1, DeadEnds: 1}, 0, true},
		{"open barrier", Ratio{SafeMoves: 2, Checkmates: 1}, 2.0, true},
		{"mixed barrier", Ratio{SafeMoves: 9, Checkmates: 2, DeadEnds: 1}, 3.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := tt.ratio.Value()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestRatioString(t *testing.T) {
	assert.Equal(t, "no barrier observed", Ratio{SafeMoves: 5}.String())
	assert.Equal(t, "2.00", Ratio{SafeMoves: 2, Checkmates: 1}.String())
}

func TestRunCheckpointPhases(t *testing.T) {
	run := Run{
		RunID:          "r",
		RootFEN:        "8/8/8/8/8/8/8/K6k w - - 0 1",
		MaxDepth:       3,
		GeneratedDepth: DepthNone,
		RetroDepth:     DepthNone,
	}
	assert.NoError(t, run.Validate())
	assert.False(t, run.GenerationComplete())
	assert.False(t, run.RetroStarted())
	assert.False(t, run.RetroComplete())

	run.GeneratedDepth = 3
	assert.True(t, run.GenerationComplete())

	run.RetroDepth = 2
	assert.True(t, run.RetroStarted())
	assert.False(t, run.RetroComplete())

	run.RetroDepth = 0
	assert.True(t, run.RetroComplete())
}
