package testbed

import (
	"github.com/spaghettifunk/terra/engine"
	"github.com/spaghettifunk/terra/engine/core"
	"github.com/spaghettifunk/terra/engine/voxel"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	Focus   voxel.ChunkCoordinate
	Elapsed float64

	exitWhenLoaded bool
	loaded         bool
}

// NewTestGame builds a game that streams the view around the origin. When
// exitWhenLoaded is set the engine stops once every chunk has been handled.
func NewTestGame(app *engine.ApplicationConfig, exitWhenLoaded bool) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: app,
			State: &gameState{
				Focus:          voxel.NewChunkCoordinate(0, 0, 0),
				exitWhenLoaded: exitWhenLoaded,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.EventRegister(core.EVENT_CODE_CONFIG_RELOADED, g, g.onEvent)
	g.requestView(g.ApplicationConfig.Config.Chunk.ViewDistance)
	return nil
}

func (g *TestGame) requestView(n int32) {
	state := g.State.(*gameState)
	core.LogInfo("streaming %d chunks around %s", 8*n*n*n, state.Focus)
	g.SystemManager.Terrain().RequestView(state.Focus, n)
	state.loaded = false
}

// onEvent widens the view when a reloaded config raises the view distance.
// Chunks already loaded are skipped by the terrain system.
func (g *TestGame) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	if code != core.EVENT_CODE_CONFIG_RELOADED {
		return false
	}
	g.requestView(data.Data.I32[0])
	return false
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.Elapsed += deltaTime

	terrain := g.SystemManager.Terrain()
	if state.loaded || !terrain.Idle() {
		return nil
	}
	state.loaded = true

	s := terrain.Stats()
	core.LogInfo("view loaded in %.2fs: %d meshes, %d empty chunks, %d triangles",
		state.Elapsed, s.Attached, s.Empty, g.Scene.TriangleCount())

	var ctx core.EventContext
	ctx.Data.I32[0] = int32(s.Attached)
	ctx.Data.I32[1] = int32(s.Empty)
	core.EventFire(core.EVENT_CODE_VIEW_LOADED, g, ctx)

	if state.exitWhenLoaded {
		core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, g, core.EventContext{})
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_CONFIG_RELOADED, g, g.onEvent)
	core.LogInfo("%d scene nodes alive at shutdown", g.Scene.Len())
	return nil
}
