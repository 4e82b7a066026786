package systems

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/terra/engine/core"
	"github.com/spaghettifunk/terra/engine/scene"
	"github.com/spaghettifunk/terra/engine/voxel"
)

var ErrNotLoading = errors.New("chunk is not loading")

type chunkEntry struct {
	handle      scene.Handle
	requestedAt time.Time
}

// ChunkRegistry tracks every requested chunk and the subset still waiting for
// its mesh. A loading chunk is always known, and leaves the loading set once.
type ChunkRegistry struct {
	all     map[voxel.ChunkCoordinate]chunkEntry
	loading map[voxel.ChunkCoordinate]struct{}
}

func NewChunkRegistry() *ChunkRegistry {
	return &ChunkRegistry{
		all:     make(map[voxel.ChunkCoordinate]chunkEntry),
		loading: make(map[voxel.ChunkCoordinate]struct{}),
	}
}

// Register records a request for coord. Registering a coordinate twice is a
// caller bug and returns ErrDuplicateRequest without touching the entry.
func (r *ChunkRegistry) Register(coord voxel.ChunkCoordinate, handle scene.Handle, now time.Time) error {
	if _, ok := r.all[coord]; ok {
		return fmt.Errorf("%w: %s", core.ErrDuplicateRequest, coord)
	}
	r.all[coord] = chunkEntry{handle: handle, requestedAt: now}
	r.loading[coord] = struct{}{}
	return nil
}

// Unregister forgets a request that never reached the worker.
func (r *ChunkRegistry) Unregister(coord voxel.ChunkCoordinate) {
	delete(r.loading, coord)
	delete(r.all, coord)
}

// Complete clears the loading flag of coord.
func (r *ChunkRegistry) Complete(coord voxel.ChunkCoordinate) error {
	if _, ok := r.loading[coord]; !ok {
		return fmt.Errorf("%w: %s", ErrNotLoading, coord)
	}
	delete(r.loading, coord)
	return nil
}

func (r *ChunkRegistry) Contains(coord voxel.ChunkCoordinate) bool {
	_, ok := r.all[coord]
	return ok
}

func (r *ChunkRegistry) IsLoading(coord voxel.ChunkCoordinate) bool {
	_, ok := r.loading[coord]
	return ok
}

func (r *ChunkRegistry) Handle(coord voxel.ChunkCoordinate) (scene.Handle, bool) {
	e, ok := r.all[coord]
	return e.handle, ok
}

func (r *ChunkRegistry) Len() int {
	return len(r.all)
}

func (r *ChunkRegistry) LoadingCount() int {
	return len(r.loading)
}

// Stuck lists the chunks loading for longer than olderThan, in coordinate order.
func (r *ChunkRegistry) Stuck(now time.Time, olderThan time.Duration) []voxel.ChunkCoordinate {
	var stuck []voxel.ChunkCoordinate
	for coord := range r.loading {
		if now.Sub(r.all[coord].requestedAt) > olderThan {
			stuck = append(stuck, coord)
		}
	}
	slices.SortFunc(stuck, func(a, b voxel.ChunkCoordinate) int {
		return a.Compare(b)
	})
	return stuck
}
