// Package guard provides the pluggable resource check invoked between
// corpus processing units.
package guard

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/internal/errs"
)

// ResourceGuard is checked before each unit of corpus processing. A non-nil
// error aborts the current pass; the checkpoint written so far is preserved.
type ResourceGuard interface {
	Check() error
}

// NoopGuard never trips. Used when no memory limit is configured.
type NoopGuard struct{}

func (NoopGuard) Check() error { return nil }

// MemoryGuard trips when the heap allocation exceeds a configured limit.
// On pressure it forces a collection first and only fails if the allocation
// stays above the limit afterwards.
type MemoryGuard struct {
	limitMB uint64
	logger  *zap.Logger
}

// NewMemoryGuard creates a MemoryGuard with the given limit in megabytes.
func NewMemoryGuard(limitMB uint64, logger *zap.Logger) *MemoryGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryGuard{limitMB: limitMB, logger: logger}
}

// ForConfig returns a MemoryGuard for a positive limit and a NoopGuard
// otherwise.
func ForConfig(limitMB uint64, logger *zap.Logger) ResourceGuard {
	if limitMB == 0 {
		return NoopGuard{}
	}
	return NewMemoryGuard(limitMB, logger)
}

func (g *MemoryGuard) Check() error {
	allocMB := heapAllocMB()
	if allocMB <= g.limitMB {
		return nil
	}

	g.logger.Warn("memory pressure detected, forcing collection",
		zap.Uint64("alloc_mb", allocMB),
		zap.Uint64("limit_mb", g.limitMB))
	runtime.GC()

	allocMB = heapAllocMB()
	if allocMB > g.limitMB {
		return &errs.ResourceExhaustionError{AllocMB: allocMB, LimitMB: g.limitMB}
	}
	return nil
}

func heapAllocMB() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc / (1024 * 1024)
}
