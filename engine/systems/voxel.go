package systems

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/terra/engine/core"
	"github.com/spaghettifunk/terra/engine/meshing"
	"github.com/spaghettifunk/terra/engine/physics"
	"github.com/spaghettifunk/terra/engine/renderer/metadata"
	"github.com/spaghettifunk/terra/engine/scene"
	"github.com/spaghettifunk/terra/engine/voxel"
)

var ErrInvalidChunkSize = fmt.Errorf("attempting to create voxel system with a chunk size below 1")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create voxel system with a negative channel size")

type VoxelEventKind uint8

const (
	VoxelEventNone VoxelEventKind = iota
	VoxelEventChunkSpawn
	VoxelEventDrop
)

// VoxelEvent is a request to the voxel worker. Handle is returned untouched in
// the matching MeshResult.
type VoxelEvent struct {
	Kind     VoxelEventKind
	Position voxel.ChunkCoordinate
	Handle   scene.Handle
}

func ChunkSpawnEvent(position voxel.ChunkCoordinate, handle scene.Handle) VoxelEvent {
	return VoxelEvent{Kind: VoxelEventChunkSpawn, Position: position, Handle: handle}
}

func DropEvent() VoxelEvent {
	return VoxelEvent{Kind: VoxelEventDrop}
}

// MeshResult is the answer to one ChunkSpawn. Mesh and Collider are nil when the
// chunk holds no surface.
type MeshResult struct {
	Position voxel.ChunkCoordinate
	Handle   scene.Handle
	Mesh     *metadata.Mesh
	Collider *metadata.Collider
	// Duration is the time spent generating and meshing the chunk.
	Duration time.Duration
}

func (r MeshResult) IsEmpty() bool {
	return r.Mesh == nil
}

type VoxelSystemConfig struct {
	ChunkSize        int
	RequestQueueSize int
	ResultQueueSize  int
}

// VoxelSystem runs the single voxel worker. The worker goroutine exclusively
// owns the chunk store and the meshing scratch buffer; the two channels are
// the only state shared with the caller.
type VoxelSystem struct {
	requests chan VoxelEvent
	results  chan MeshResult
	// wake is closed by Shutdown to interrupt a blocked worker
	wake chan struct{}
	done chan struct{}

	store  *voxel.ChunkStore
	buffer *meshing.SurfaceNetsBuffer

	stopping atomic.Bool
	once     sync.Once
	wg       sync.WaitGroup
	failure  error
}

func NewVoxelSystem(config VoxelSystemConfig, generator voxel.Generator) (*VoxelSystem, error) {
	if config.ChunkSize < 1 {
		return nil, ErrInvalidChunkSize
	}
	if config.RequestQueueSize < 0 || config.ResultQueueSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	vs := &VoxelSystem{
		requests: make(chan VoxelEvent, config.RequestQueueSize),
		results:  make(chan MeshResult, config.ResultQueueSize),
		wake:     make(chan struct{}),
		done:     make(chan struct{}),
		store:    voxel.NewChunkStore(voxel.NewShape(config.ChunkSize), generator),
		buffer:   meshing.NewSurfaceNetsBuffer(),
	}

	vs.start()

	return vs, nil
}

func (vs *VoxelSystem) start() {
	vs.wg.Add(1)
	go vs.run()
}

func (vs *VoxelSystem) run() {
	defer vs.wg.Done()
	defer close(vs.done)
	defer close(vs.results)
	defer func() {
		if r := recover(); r != nil {
			vs.failure = fmt.Errorf("voxel worker panicked: %v", r)
			core.LogError(vs.failure.Error())
		}
	}()

	for {
		select {
		case <-vs.wake:
			return
		default:
		}

		select {
		case <-vs.wake:
			return
		case evt := <-vs.requests:
			if !vs.handle(evt) {
				return
			}
		}
	}
}

// handle processes one event and reports whether the worker keeps running.
func (vs *VoxelSystem) handle(evt VoxelEvent) bool {
	switch evt.Kind {
	case VoxelEventDrop:
		core.LogDebug("voxel worker received drop")
		return false
	case VoxelEventChunkSpawn:
		result := vs.spawnChunk(evt)
		select {
		case vs.results <- result:
			return true
		case <-vs.wake:
			return false
		}
	default:
		return true
	}
}

func (vs *VoxelSystem) spawnChunk(evt VoxelEvent) MeshResult {
	start := time.Now()

	chunk := vs.store.GetOrCreate(evt.Position)
	meshing.Extract(chunk, vs.buffer)

	result := MeshResult{
		Position: evt.Position,
		Handle:   evt.Handle,
		Mesh:     vs.buffer.ToMesh(),
	}
	if result.Mesh != nil {
		result.Collider = physics.NewTriMeshCollider(result.Mesh)
	}
	result.Duration = time.Since(start)

	if result.Mesh != nil {
		core.LogDebug("spawned %s in %s with %d triangles", evt.Position, result.Duration, result.Mesh.TriangleCount())
	} else {
		core.LogDebug("spawned %s in %s without surface", evt.Position, result.Duration)
	}
	return result
}

/**
 * @brief Queues an event for the worker without blocking.
 * @return ErrRequestQueueFull when there is no room, ErrWorkerStopped once the worker exited.
 */
func (vs *VoxelSystem) Send(evt VoxelEvent) error {
	if vs.stopping.Load() {
		return core.ErrWorkerStopped
	}
	select {
	case <-vs.done:
		return core.ErrWorkerStopped
	default:
	}

	select {
	case vs.requests <- evt:
		return nil
	default:
		return core.ErrRequestQueueFull
	}
}

// QueueFree is the number of events that can be sent without blocking.
func (vs *VoxelSystem) QueueFree() int {
	return cap(vs.requests) - len(vs.requests)
}

/**
 * @brief Takes one finished result if there is any. Never blocks.
 * @return ok is false when nothing is ready. err is ErrPipelineDown when the
 * worker died on its own, ErrWorkerStopped after Shutdown.
 */
func (vs *VoxelSystem) TryReceive() (MeshResult, bool, error) {
	select {
	case result, ok := <-vs.results:
		if !ok {
			if vs.stopping.Load() {
				return MeshResult{}, false, core.ErrWorkerStopped
			}
			return MeshResult{}, false, core.ErrPipelineDown
		}
		return result, true, nil
	default:
		return MeshResult{}, false, nil
	}
}

// Done is closed when the worker goroutine has exited.
func (vs *VoxelSystem) Done() <-chan struct{} {
	return vs.done
}

/**
 * @brief Stops the worker and waits for it to exit. Safe to call more than once.
 * @return the failure that killed the worker, if any.
 */
func (vs *VoxelSystem) Shutdown() error {
	vs.once.Do(func() {
		vs.stopping.Store(true)
		select {
		case vs.requests <- DropEvent():
		default:
		}
		close(vs.wake)
	})
	vs.wg.Wait()
	return vs.failure
}
