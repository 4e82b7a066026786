package systems

import (
	"github.com/spaghettifunk/terra/engine/containers"
	"github.com/spaghettifunk/terra/engine/math"
)

const DefaultMeshCacheCapacity = 16

// MeshCache spreads bursts of finished chunk meshes over several ticks.
//
// The budget starts at the capacity. Each push spends one unit and each pop
// earns one back. While the budget is below the capacity the cache is busy and
// a pop releases at most capacity entries; once the budget is full again a pop
// flushes the whole backlog.
type MeshCache struct {
	queue    *containers.RingQueue[MeshResult]
	capacity int
	budget   int
}

func NewMeshCache(capacity int) *MeshCache {
	if capacity < 1 {
		capacity = DefaultMeshCacheCapacity
	}
	return &MeshCache{
		queue:    containers.NewGrowableRingQueue[MeshResult](capacity),
		capacity: capacity,
		budget:   capacity,
	}
}

func (mc *MeshCache) Push(result MeshResult) {
	// a growable queue never rejects
	_ = mc.queue.Enqueue(result)
	mc.budget = math.Clamp(mc.budget-1, 0, mc.capacity)
}

// Pop returns the entries to materialize this tick, oldest first.
func (mc *MeshCache) Pop() []MeshResult {
	mc.budget = math.Clamp(mc.budget+1, 0, mc.capacity)
	if mc.queue.IsEmpty() {
		return nil
	}
	if mc.IsBusy() {
		return mc.queue.DequeueN(mc.capacity)
	}
	return mc.queue.DequeueN(mc.queue.Len())
}

func (mc *MeshCache) IsBusy() bool {
	return mc.budget < mc.capacity
}

func (mc *MeshCache) Len() int {
	return mc.queue.Len()
}

func (mc *MeshCache) Budget() int {
	return mc.budget
}

func (mc *MeshCache) Capacity() int {
	return mc.capacity
}

// SetCapacity changes the per tick limit and refills the budget.
func (mc *MeshCache) SetCapacity(capacity int) {
	if capacity < 1 {
		capacity = DefaultMeshCacheCapacity
	}
	mc.capacity = capacity
	mc.budget = capacity
}
