package hardware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHashStable(t *testing.T) {
	snap := Snapshot{
		TotalRAMBytes:      32 << 30,
		AvailableRAMBytes:  24 << 30,
		TotalVRAMBytes:     12 << 30,
		AvailableVRAMBytes: 11 << 30,
		GPUPresent:         true,
		GPUClass:           GPUClassHighEnd,
		CPUClass:           CPUClassMainstream,
	}
	assert.Equal(t, snap.Hash(), snap.Hash())
	assert.Len(t, snap.Hash(), 16)
}

func TestSnapshotHashChangesWithMemory(t *testing.T) {
	snap := Snapshot{AvailableRAMBytes: 16 << 30, CPUClass: CPUClassMainstream}
	drained := snap
	drained.AvailableRAMBytes = 8 << 30
	assert.NotEqual(t, snap.Hash(), drained.Hash())
}

func TestStaticProvider(t *testing.T) {
	want := Snapshot{AvailableRAMBytes: 16 << 30, GPUPresent: true, GPUClass: GPUClassMidRange}
	got, err := StaticProvider{Snap: want}.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
