package export

import (
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/loader"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/profiler"

	"go.uber.org/zap"
)

// ExporterBuilderOption is a functional option for configuring an Exporter via NewExporter.
type ExporterBuilderOption func(*exporter)

// WithLogger sets the logger used for progress and skipped folders.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - ExporterBuilderOption: a function that applies the logger option to an exporter
func WithLogger(logger *zap.Logger) ExporterBuilderOption {
	return func(e *exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLoader sets the loader used to scan folders.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - ExporterBuilderOption: a function that applies the loader option to an exporter
func WithLoader(l loader.Loader) ExporterBuilderOption {
	return func(e *exporter) {
		e.loader = l
	}
}

// WithBaker sets the baker used for every folder.
//
// Parameters:
//   - b: the baker
//
// Returns:
//   - ExporterBuilderOption: a function that applies the baker option to an exporter
func WithBaker(b baker.Baker) ExporterBuilderOption {
	return func(e *exporter) {
		e.baker = b
	}
}

// WithProfiler sets the profiler ticked once per exported asset.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - ExporterBuilderOption: a function that applies the profiler option to an exporter
func WithProfiler(p *profiler.Profiler) ExporterBuilderOption {
	return func(e *exporter) {
		e.profiler = p
	}
}

// WithOutputDir sets the root folder exports are written below.
//
// Parameters:
//   - dir: the output root
//
// Returns:
//   - ExporterBuilderOption: a function that applies the output option to an exporter
func WithOutputDir(dir string) ExporterBuilderOption {
	return func(e *exporter) {
		if dir != "" {
			e.outputDir = dir
		}
	}
}

// WithWorkers sets how many folders ExportAll processes at once. Values below 1 are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - ExporterBuilderOption: a function that applies the worker option to an exporter
func WithWorkers(n int) ExporterBuilderOption {
	return func(e *exporter) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithPreview enables writing a TIFF preview next to each skinning texture.
//
// Parameters:
//   - enabled: true to write previews
//
// Returns:
//   - ExporterBuilderOption: a function that applies the preview option to an exporter
func WithPreview(enabled bool) ExporterBuilderOption {
	return func(e *exporter) {
		e.preview = enabled
	}
}

// WithDefaultClip sets the clip player prefabs start on.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - ExporterBuilderOption: a function that applies the default clip option to an exporter
func WithDefaultClip(name string) ExporterBuilderOption {
	return func(e *exporter) {
		if name != "" {
			e.defaultClip = name
		}
	}
}
