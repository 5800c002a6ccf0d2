package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStressRun(t *testing.T) {
	report, err := run(context.Background(), &options{
		duration:   50 * time.Millisecond,
		entities:   200,
		controlled: 0.5,
		parallel:   true,
		seed:       7,
	}, zap.NewNop())
	require.NoError(t, err)

	require.Positive(t, report.TotalUpdates)
	assert.Len(t, report.UpdateTime.Samples, int(report.TotalUpdates))
	assert.Equal(t, int64(200), report.DrawsPerUpdate())
	assert.LessOrEqual(t, report.UpdateTime.Min, report.UpdateTime.Avg)
	assert.LessOrEqual(t, report.UpdateTime.Avg, report.UpdateTime.Max)
	assert.Len(t, report.Systems, 6)

	var out bytes.Buffer
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "- **Sprites:** 200 (50% controlled)")
	assert.Contains(t, out.String(), "| animation | AnimationSystem |")
	assert.NotContains(t, out.String(), "GC Pause")
}

func TestStatsFinalize(t *testing.T) {
	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)

	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)
}
