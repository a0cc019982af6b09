package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/Carmen-Shannon/oxy-gpuanim/common"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/export"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/loader"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/logger"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/player"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/profiler"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes environment overrides, e.g. OXY_EXPORT_WORKERS.
const EnvPrefix = "OXY"

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// BakeConfig controls clip import and sampling.
type BakeConfig struct {
	FrameRate    float32
	DefaultLoop  bool
	LoopClips    []string
	OnceClips    []string
	SkeletonRoot string
}

// PlayerConfig controls the runtime player.
type PlayerConfig struct {
	DefaultClip string
}

// ExportConfig controls where and how exports are written.
type ExportConfig struct {
	OutputDir string
	Workers   int
	Preview   bool
}

// LoggerConfig controls the process logger.
type LoggerConfig struct {
	Level       string
	Development bool
}

// Config is the full tool configuration.
type Config struct {
	Bake   BakeConfig
	Player PlayerConfig
	Export ExportConfig
	Logger LoggerConfig
}

// DefaultWorkers leaves one CPU free, with a minimum of one worker.
//
// Returns:
//   - int: the default export worker count
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()-1)
}

// New returns a viper instance carrying the defaults and environment bindings.
//
// Returns:
//   - *viper.Viper: the configured viper instance
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("bake.frame_rate", loader.DefaultFrameRate)
	v.SetDefault("bake.default_loop", true)
	v.SetDefault("bake.loop_clips", []string{})
	v.SetDefault("bake.once_clips", []string{})
	v.SetDefault("bake.skeleton_root", "")
	v.SetDefault("player.default_clip", player.DefaultClipName)
	v.SetDefault("export.output_dir", export.DefaultOutputDir)
	v.SetDefault("export.workers", DefaultWorkers())
	v.SetDefault("export.preview", false)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.development", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file at path, if any, over the defaults and environment.
//
// Parameters:
//   - path: a yaml, json or toml file; empty to use defaults and environment only
//
// Returns:
//   - *Config: the loaded configuration
//   - error: a read error or ErrInvalidConfig
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper extracts a Config from a viper instance.
//
// Parameters:
//   - v: the viper instance
//
// Returns:
//   - *Config: the configuration
//   - error: ErrInvalidConfig if a value is out of range
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{
		Bake: BakeConfig{
			FrameRate:    float32(v.GetFloat64("bake.frame_rate")),
			DefaultLoop:  v.GetBool("bake.default_loop"),
			LoopClips:    v.GetStringSlice("bake.loop_clips"),
			OnceClips:    v.GetStringSlice("bake.once_clips"),
			SkeletonRoot: v.GetString("bake.skeleton_root"),
		},
		Player: PlayerConfig{
			DefaultClip: common.Coalesce(v.GetString("player.default_clip"), player.DefaultClipName),
		},
		Export: ExportConfig{
			OutputDir: common.Coalesce(v.GetString("export.output_dir"), export.DefaultOutputDir),
			Workers:   v.GetInt("export.workers"),
			Preview:   v.GetBool("export.preview"),
		},
		Logger: LoggerConfig{
			Level:       v.GetString("logger.level"),
			Development: v.GetBool("logger.development"),
		},
	}
	if c.Bake.FrameRate <= 0 {
		return nil, fmt.Errorf("%w: bake.frame_rate must be positive, got %v", ErrInvalidConfig, c.Bake.FrameRate)
	}
	if c.Export.Workers < 1 {
		return nil, fmt.Errorf("%w: export.workers must be at least 1, got %d", ErrInvalidConfig, c.Export.Workers)
	}
	return c, nil
}

// LoopOverrides merges the loop and once clip lists. A clip in both lists loops.
//
// Returns:
//   - map[string]bool: clip name to loop flag
func (c *Config) LoopOverrides() map[string]bool {
	out := make(map[string]bool, len(c.Bake.LoopClips)+len(c.Bake.OnceClips))
	for _, name := range c.Bake.OnceClips {
		out[name] = false
	}
	for _, name := range c.Bake.LoopClips {
		out[name] = true
	}
	return out
}

// NewLogger builds the process logger described by the config.
//
// Returns:
//   - *zap.Logger: the logger
//   - error: logger.ErrInvalidLevel, or a build error
func (c *Config) NewLogger() (*zap.Logger, error) {
	return logger.New(c.Logger.Level, c.Logger.Development)
}

// NewExporter wires a loader, baker, profiler and exporter from the config.
//
// Parameters:
//   - log: the logger shared by every component
//
// Returns:
//   - export.Exporter: the exporter
func (c *Config) NewExporter(log *zap.Logger) export.Exporter {
	l := loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithLogger(log),
		loader.WithFrameRate(c.Bake.FrameRate),
		loader.WithDefaultLoop(c.Bake.DefaultLoop),
		loader.WithLoopOverrides(c.LoopOverrides()),
	)
	b := baker.NewBaker(
		baker.WithLogger(log),
		baker.WithSkeletonRoot(c.Bake.SkeletonRoot),
		baker.WithFrameRate(c.Bake.FrameRate),
	)
	return export.NewExporter(
		export.WithLogger(log),
		export.WithLoader(l),
		export.WithBaker(b),
		export.WithProfiler(profiler.NewProfiler(log)),
		export.WithOutputDir(c.Export.OutputDir),
		export.WithWorkers(c.Export.Workers),
		export.WithPreview(c.Export.Preview),
		export.WithDefaultClip(c.Player.DefaultClip),
	)
}
