package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestProfilerTick(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewProfiler(zap.New(core))
	p.SetInterval(0)

	assert.True(t, p.Tick(186))
	entries := logs.FilterMessage("export stats").All()
	assert.Len(t, entries, 1)

	p.SetInterval(1 << 62)
	assert.False(t, p.Tick(10))

	n, _ := p.Summary()
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, logs.FilterMessage("export finished").Len())
}

func TestNewProfilerNilLogger(t *testing.T) {
	p := NewProfiler(nil)
	assert.NotPanics(t, func() { p.Tick(0) })
}
