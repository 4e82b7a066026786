package systems

import (
	"errors"
	"time"

	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/terra/engine/core"
	"github.com/spaghettifunk/terra/engine/math"
	"github.com/spaghettifunk/terra/engine/scene"
	"github.com/spaghettifunk/terra/engine/voxel"
)

// ChunkWorker is the consumer side view of the voxel worker.
type ChunkWorker interface {
	Send(evt VoxelEvent) error
	QueueFree() int
	TryReceive() (MeshResult, bool, error)
	Shutdown() error
}

type TerrainSystemConfig struct {
	ChunkSize         int
	MeshCacheCapacity int
	// ResultsPerTick is how many finished chunks are taken from the worker per update.
	ResultsPerTick int
	// StuckAfter is how long a chunk may stay loading before Stats reports it.
	StuckAfter time.Duration
}

type TerrainStats struct {
	Requested int
	Pending   int
	Loading   int
	Cached    int
	Attached  int
	Empty     int
	Stuck     int
}

// TerrainSystem decides which chunks to request, collects finished meshes and
// hands them to the scene at a bounded rate. It must be updated from a single
// goroutine.
type TerrainSystem struct {
	config TerrainSystemConfig
	worker ChunkWorker
	graph  scene.SceneGraph

	registry *ChunkRegistry
	cache    *MeshCache

	// pending is nil when no desired list is outstanding
	pending []voxel.ChunkCoordinate
	focus   voxel.ChunkCoordinate
	// spare placeholders left over from requests the worker refused
	spare []scene.Handle

	down     bool
	attached int
	empty    int

	now func() time.Time
}

func NewTerrainSystem(config TerrainSystemConfig, worker ChunkWorker, graph scene.SceneGraph) (*TerrainSystem, error) {
	if config.ChunkSize < 1 {
		return nil, ErrInvalidChunkSize
	}
	if config.ResultsPerTick < 1 {
		config.ResultsPerTick = 1
	}
	return &TerrainSystem{
		config:   config,
		worker:   worker,
		graph:    graph,
		registry: NewChunkRegistry(),
		cache:    NewMeshCache(config.MeshCacheCapacity),
		now:      time.Now,
	}, nil
}

// SpawnCandidates returns the cube of chunk coordinates from center-n to
// center+n-1 on every axis.
func SpawnCandidates(center voxel.ChunkCoordinate, n int32) []voxel.ChunkCoordinate {
	if n <= 0 {
		return nil
	}
	side := int(2 * n)
	coords := make([]voxel.ChunkCoordinate, 0, side*side*side)
	for x := -n; x < n; x++ {
		for y := -n; y < n; y++ {
			for z := -n; z < n; z++ {
				coords = append(coords, voxel.NewChunkCoordinate(center.X+x, center.Y+y, center.Z+z))
			}
		}
	}
	return coords
}

// RequestChunks adds coords to the desired list. They are sent over the next updates.
func (ts *TerrainSystem) RequestChunks(coords []voxel.ChunkCoordinate) {
	if len(coords) == 0 {
		return
	}
	ts.pending = append(ts.pending, coords...)
}

// RequestView asks for the view cube of radius n around center, closest chunks first.
func (ts *TerrainSystem) RequestView(center voxel.ChunkCoordinate, n int32) {
	ts.focus = center
	ts.RequestChunks(SpawnCandidates(center, n))
}

/**
 * @brief Runs one tick: send requests, take finished meshes, attach a bounded batch.
 * @return ErrPipelineDown once the worker is gone. Meshes already received are
 * still attached on later ticks, but nothing new is requested.
 */
func (ts *TerrainSystem) Update(delta float64) error {
	var failure error
	if ts.down {
		failure = core.ErrPipelineDown
	} else {
		if err := ts.sendRequests(); err != nil {
			return ts.fail(err)
		}
		if err := ts.receiveResults(); err != nil {
			failure = ts.fail(err)
		}
	}

	if err := ts.materialize(); err != nil {
		return err
	}
	return failure
}

func (ts *TerrainSystem) fail(err error) error {
	if errors.Is(err, core.ErrPipelineDown) || errors.Is(err, core.ErrWorkerStopped) {
		if !ts.down {
			core.LogError("terrain pipeline is down: %s", err.Error())
		}
		ts.down = true
		ts.pending = nil
		return core.ErrPipelineDown
	}
	return err
}

func (ts *TerrainSystem) sendRequests() error {
	if ts.pending == nil {
		return nil
	}

	seen := make(map[voxel.ChunkCoordinate]struct{}, len(ts.pending))
	wanted := ts.pending[:0]
	for _, coord := range ts.pending {
		if ts.registry.Contains(coord) {
			continue
		}
		if _, ok := seen[coord]; ok {
			continue
		}
		seen[coord] = struct{}{}
		wanted = append(wanted, coord)
	}

	focus := ts.focus.IVec3()
	slices.SortFunc(wanted, func(a, b voxel.ChunkCoordinate) int {
		da := a.IVec3().Sub(focus).LengthSquared()
		db := b.IVec3().Sub(focus).LengthSquared()
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		default:
			return a.Compare(b)
		}
	})

	free := ts.worker.QueueFree()
	sent := 0
	for _, coord := range wanted {
		if sent >= free {
			break
		}
		handle := ts.placeholder()
		if err := ts.registry.Register(coord, handle, ts.now()); err != nil {
			return err
		}
		if err := ts.worker.Send(ChunkSpawnEvent(coord, handle)); err != nil {
			ts.registry.Unregister(coord)
			ts.spare = append(ts.spare, handle)
			if errors.Is(err, core.ErrRequestQueueFull) {
				break
			}
			return err
		}
		sent++
	}

	ts.pending = wanted[sent:]
	if len(ts.pending) == 0 {
		ts.pending = nil
	}
	return nil
}

func (ts *TerrainSystem) placeholder() scene.Handle {
	if n := len(ts.spare); n > 0 {
		h := ts.spare[n-1]
		ts.spare = ts.spare[:n-1]
		return h
	}
	return ts.graph.AllocatePlaceholder()
}

func (ts *TerrainSystem) receiveResults() error {
	for i := 0; i < ts.config.ResultsPerTick; i++ {
		result, ok, err := ts.worker.TryReceive()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if result.IsEmpty() {
			if err := ts.registry.Complete(result.Position); err != nil {
				return err
			}
			ts.empty++
			continue
		}
		ts.cache.Push(result)
	}
	return nil
}

// materialize attaches the batch released by the cache. Every entry is
// attempted; an entry the scene refuses is unregistered so it can be requested
// again, and its error is joined into the result.
func (ts *TerrainSystem) materialize() error {
	var errs []error
	for _, result := range ts.cache.Pop() {
		origin := result.Position.Origin(ts.config.ChunkSize).ToVec3()
		transform := math.TransformFromPosition(origin)
		if err := ts.graph.AttachGeometry(result.Handle, result.Mesh, result.Collider, transform); err != nil {
			core.LogError("failed to attach %s: %s", result.Position, err.Error())
			ts.registry.Unregister(result.Position)
			errs = append(errs, err)
			continue
		}
		if err := ts.registry.Complete(result.Position); err != nil {
			errs = append(errs, err)
			continue
		}
		ts.attached++
	}
	return errors.Join(errs...)
}

func (ts *TerrainSystem) SetCacheCapacity(capacity int) {
	ts.cache.SetCapacity(capacity)
}

func (ts *TerrainSystem) Registry() *ChunkRegistry {
	return ts.registry
}

func (ts *TerrainSystem) IsDown() bool {
	return ts.down
}

// Idle reports whether every requested chunk has been handled.
func (ts *TerrainSystem) Idle() bool {
	return ts.pending == nil && ts.registry.LoadingCount() == 0 && ts.cache.Len() == 0
}

func (ts *TerrainSystem) Stats() TerrainStats {
	return TerrainStats{
		Requested: ts.registry.Len(),
		Pending:   len(ts.pending),
		Loading:   ts.registry.LoadingCount(),
		Cached:    ts.cache.Len(),
		Attached:  ts.attached,
		Empty:     ts.empty,
		Stuck:     len(ts.registry.Stuck(ts.now(), ts.config.StuckAfter)),
	}
}

func (ts *TerrainSystem) Shutdown() error {
	return ts.worker.Shutdown()
}
