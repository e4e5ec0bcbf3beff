// Package hardware defines the read-only hardware capability snapshot the
// engine analyzes models against. Snapshots are produced by an external
// Provider and fetched fresh per analysis call; the engine never persists
// them beyond the derived-result cache keyed on their hash.
package hardware

import (
	"context"
	"fmt"
	"hash/fnv"
)

// GPUClass buckets GPUs by rough capability tier.
type GPUClass string

// String returns the string representation of a GPUClass.
func (c GPUClass) String() string {
	return string(c)
}

// GPU classes.
const (
	GPUClassHighEnd    GPUClass = "high-end"
	GPUClassMidRange   GPUClass = "mid-range"
	GPUClassLowEnd     GPUClass = "low-end"
	GPUClassIntegrated GPUClass = "integrated"
	GPUClassUnknown    GPUClass = "unknown"
)

// CPUClass buckets CPUs by rough capability tier.
type CPUClass string

// String returns the string representation of a CPUClass.
func (c CPUClass) String() string {
	return string(c)
}

// CPU classes.
const (
	CPUClassHighEnd    CPUClass = "high-end"
	CPUClassMainstream CPUClass = "mainstream"
	CPUClassLowPower   CPUClass = "low-power"
	CPUClassUnknown    CPUClass = "unknown"
)

// Snapshot is a point-in-time view of the machine's capability.
type Snapshot struct {
	TotalRAMBytes      int64    `json:"total_ram_bytes"`
	AvailableRAMBytes  int64    `json:"available_ram_bytes"`
	TotalVRAMBytes     int64    `json:"total_vram_bytes"`
	AvailableVRAMBytes int64    `json:"available_vram_bytes"`
	GPUPresent         bool     `json:"gpu_present"`
	GPUClass           GPUClass `json:"gpu_class"`
	CPUClass           CPUClass `json:"cpu_class"`
}

// Hash returns a stable fnv-64a hash of the snapshot, used as part of the
// derived-result cache key.
func (s Snapshot) Hash() string {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d|%d|%d|%d|%t|%s|%s",
		s.TotalRAMBytes, s.AvailableRAMBytes,
		s.TotalVRAMBytes, s.AvailableVRAMBytes,
		s.GPUPresent, s.GPUClass, s.CPUClass)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Provider supplies hardware snapshots. Implemented by the host application;
// the engine treats it as an external collaborator.
type Provider interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// StaticProvider is a Provider that always returns a fixed snapshot. Useful
// for CLIs that take capability flags and for tests.
type StaticProvider struct {
	Snap Snapshot
}

// Snapshot implements the Provider interface.
func (p StaticProvider) Snapshot(_ context.Context) (Snapshot, error) {
	return p.Snap, nil
}
