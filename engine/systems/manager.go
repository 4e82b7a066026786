package systems

import (
	"github.com/spaghettifunk/terra/engine/config"
	"github.com/spaghettifunk/terra/engine/core"
	"github.com/spaghettifunk/terra/engine/scene"
	"github.com/spaghettifunk/terra/engine/terrain"
)

type SystemManager struct {
	voxelSystem   *VoxelSystem
	terrainSystem *TerrainSystem
}

func NewSystemManager(cfg *config.Config, graph scene.SceneGraph) (*SystemManager, error) {
	vs, err := NewVoxelSystem(VoxelSystemConfig{
		ChunkSize:        cfg.Chunk.Size,
		RequestQueueSize: cfg.Pipeline.RequestQueueSize,
		ResultQueueSize:  cfg.Pipeline.ResultQueueSize,
	}, terrain.NewGenerator(cfg.Terrain.Settings()))
	if err != nil {
		return nil, err
	}
	ts, err := NewTerrainSystem(TerrainSystemConfig{
		ChunkSize:         cfg.Chunk.Size,
		MeshCacheCapacity: cfg.Pipeline.MeshCacheCapacity,
		ResultsPerTick:    cfg.Pipeline.ResultsPerTick,
		StuckAfter:        cfg.Pipeline.StuckAfter.Duration(),
	}, vs, graph)
	if err != nil {
		if serr := vs.Shutdown(); serr != nil {
			core.LogError(serr.Error())
		}
		return nil, err
	}
	return &SystemManager{
		voxelSystem:   vs,
		terrainSystem: ts,
	}, nil
}

func (sm *SystemManager) Terrain() *TerrainSystem {
	return sm.terrainSystem
}

// Apply takes the reloadable fields of a new configuration. Must be called
// from the goroutine that updates the systems.
func (sm *SystemManager) Apply(cfg *config.Config) {
	if sm.terrainSystem.cache.Capacity() != cfg.Pipeline.MeshCacheCapacity {
		core.LogInfo("mesh cache capacity set to %d", cfg.Pipeline.MeshCacheCapacity)
		sm.terrainSystem.SetCacheCapacity(cfg.Pipeline.MeshCacheCapacity)
	}
}

func (sm *SystemManager) Update(delta float64) error {
	return sm.terrainSystem.Update(delta)
}

/**
 * @brief Stops the voxel worker. Called once during teardown.
 */
func (sm *SystemManager) Shutdown() error {
	return sm.terrainSystem.Shutdown()
}
