package profiler

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Profiler tracks export throughput and memory statistics.
// Stats are logged at a configurable interval and are safe to record from several workers.
type Profiler struct {
	mu             sync.Mutex
	logger         *zap.Logger
	assetCount     int
	pixelCount     int
	totalAssets    int
	started        time.Time
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second; a nil logger discards the stats.
//
// Parameters:
//   - logger: the zap logger stats are written to
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *zap.Logger) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now()
	return &Profiler{
		logger:         logger,
		started:        now,
		lastTime:       now,
		updateInterval: time.Second,
	}
}

// SetInterval changes how often stats are logged.
//
// Parameters:
//   - d: the update interval
func (p *Profiler) SetInterval(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateInterval = d
}

// Tick records one exported asset and the number of texels it baked.
// Logs throughput and memory statistics when the update interval has elapsed.
//
// Parameters:
//   - pixels: the texel count of the asset's skinning texture
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(pixels int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.assetCount++
	p.totalAssets++
	p.pixelCount += pixels
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info("export stats",
		zap.Float64("assetsPerSec", float64(p.assetCount)/elapsed.Seconds()),
		zap.Float64("texelsPerSec", float64(p.pixelCount)/elapsed.Seconds()),
		zap.Float64("heapMB", float64(p.memStats.Alloc)/1024/1024),
		zap.Float64("allocRateMBs", float64(allocDelta)/1024/1024/elapsed.Seconds()),
		zap.Uint32("gc", gcCount),
		zap.Uint64("gcLastPauseUs", lastPauseUs),
		zap.Uint64("gcMaxPauseUs", maxPauseUs),
		zap.Float64("sysMB", float64(p.memStats.Sys)/1024/1024),
	)

	p.assetCount = 0
	p.pixelCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Summary logs the totals since the profiler was created.
//
// Returns:
//   - int: the number of assets recorded
//   - time.Duration: the time since creation
func (p *Profiler) Summary() (int, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	elapsed := time.Since(p.started)
	p.logger.Info("export finished", zap.Int("assets", p.totalAssets), zap.Duration("elapsed", elapsed))
	return p.totalAssets, elapsed
}
