package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/export"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, float32(30), c.Bake.FrameRate)
	assert.True(t, c.Bake.DefaultLoop)
	assert.Empty(t, c.Bake.SkeletonRoot)
	assert.Equal(t, "idle", c.Player.DefaultClip)
	assert.Equal(t, export.DefaultOutputDir, c.Export.OutputDir)
	assert.Equal(t, DefaultWorkers(), c.Export.Workers)
	assert.GreaterOrEqual(t, c.Export.Workers, 1)
	assert.False(t, c.Export.Preview)
	assert.Equal(t, "info", c.Logger.Level)
	assert.Empty(t, c.LoopOverrides())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bake:
  frame_rate: 60
  default_loop: true
  loop_clips: [run, walk]
  once_clips: [die, run]
  skeleton_root: Armature
player:
  default_clip: walk
export:
  output_dir: out
  workers: 4
  preview: true
logger:
  level: debug
  development: true
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(60), c.Bake.FrameRate)
	assert.True(t, c.Bake.DefaultLoop)
	assert.Equal(t, "Armature", c.Bake.SkeletonRoot)
	assert.Equal(t, "walk", c.Player.DefaultClip)
	assert.Equal(t, "out", c.Export.OutputDir)
	assert.Equal(t, 4, c.Export.Workers)
	assert.True(t, c.Export.Preview)
	assert.Equal(t, map[string]bool{"run": true, "walk": true, "die": false}, c.LoopOverrides())

	l, err := c.NewLogger()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
	assert.NotNil(t, c.NewExporter(zap.NewNop()))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OXY_EXPORT_WORKERS", "8")
	t.Setenv("OXY_PLAYER_DEFAULT_CLIP", "run")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, c.Export.Workers)
	assert.Equal(t, "run", c.Player.DefaultClip)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("OXY_EXPORT_WORKERS", "0")
	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("OXY_EXPORT_WORKERS", "1")
	t.Setenv("OXY_BAKE_FRAME_RATE", "-5")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("OXY_BAKE_FRAME_RATE", "30")
	t.Setenv("OXY_LOGGER_LEVEL", "loud")
	c, err := Load("")
	require.NoError(t, err)
	_, err = c.NewLogger()
	assert.ErrorIs(t, err, logger.ErrInvalidLevel)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
