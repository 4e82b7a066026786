package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spaghettifunk/terra/engine/config"
	"github.com/spaghettifunk/terra/engine/core"
	"github.com/spaghettifunk/terra/engine/voxel"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Engine.TickRate = config.Duration(time.Millisecond)
	cfg.Engine.StatsInterval = 0
	cfg.Chunk.ViewDistance = 1
	cfg.Pipeline.ResultsPerTick = 4
	return cfg
}

func TestNewRequiresApplicationConfig(t *testing.T) {
	if _, err := New(&Game{}); err == nil {
		t.Fatal("expected an error without an application config")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Chunk.Size = 0
	if _, err := New(&Game{ApplicationConfig: &ApplicationConfig{Config: cfg}}); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestRunBeforeInitialize(t *testing.T) {
	e, err := New(&Game{ApplicationConfig: &ApplicationConfig{Config: testConfig()}})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	if err := e.Run(context.Background()); err == nil {
		t.Fatal("expected Run to refuse an uninitialized engine")
	}
}

func TestRunStreamsViewUntilQuit(t *testing.T) {
	g := &Game{ApplicationConfig: &ApplicationConfig{Name: "test", Config: testConfig()}}
	ticks := 0
	g.FnInitialize = func() error {
		g.SystemManager.Terrain().RequestView(voxel.NewChunkCoordinate(0, 0, 0), 1)
		return nil
	}
	g.FnUpdate = func(float64) error {
		ticks++
		if g.SystemManager.Terrain().Idle() {
			return ErrQuit
		}
		return nil
	}
	shutdownCalls := 0
	g.FnShutdown = func() error {
		shutdownCalls++
		return nil
	}

	e, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("view did not load before the deadline")
	}

	s := g.SystemManager.Terrain().Stats()
	if s.Attached+s.Empty != 8 {
		t.Errorf("handled %d chunks, want 8", s.Attached+s.Empty)
	}
	if g.Scene.AttachedCount() != s.Attached {
		t.Errorf("scene has %d meshes, stats say %d", g.Scene.AttachedCount(), s.Attached)
	}
	if ticks == 0 {
		t.Error("game update never ran")
	}

	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if shutdownCalls != 1 {
		t.Errorf("game shutdown ran %d times, want 1", shutdownCalls)
	}
	if e.Stage() != EngineStageShuttingDown {
		t.Errorf("stage = %d after shutdown", e.Stage())
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	e, err := New(&Game{ApplicationConfig: &ApplicationConfig{Config: testConfig()}})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunReturnsGameError(t *testing.T) {
	boom := errors.New("boom")
	g := &Game{ApplicationConfig: &ApplicationConfig{Config: testConfig()}}
	g.FnUpdate = func(float64) error { return boom }

	e, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
}

func TestApplyConfigUpdatesReloadableFields(t *testing.T) {
	e, err := New(&Game{ApplicationConfig: &ApplicationConfig{Config: testConfig()}})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	next := testConfig()
	next.Pipeline.MeshCacheCapacity = 3
	next.Engine.TickRate = config.Duration(5 * time.Millisecond)
	next.Chunk.Size = 32
	e.applyConfig(next)

	if got := e.config.Pipeline.MeshCacheCapacity; got != 3 {
		t.Errorf("cache capacity = %d, want 3", got)
	}
	if got := e.config.Engine.TickRate.Duration(); got != 5*time.Millisecond {
		t.Errorf("tick rate = %s", got)
	}
	if got := e.config.Chunk.Size; got != 16 {
		t.Errorf("chunk size changed to %d on reload", got)
	}
}

func TestQuitEventStopsRun(t *testing.T) {
	g := &Game{ApplicationConfig: &ApplicationConfig{Config: testConfig()}}
	g.FnUpdate = func(float64) error {
		core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, g, core.EventContext{})
		return nil
	}

	e, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("quit event was ignored")
	}
}

func TestApplyConfigFiresReloadEvent(t *testing.T) {
	e, err := New(&Game{ApplicationConfig: &ApplicationConfig{ConfigPath: "terra.toml", Config: testConfig()}})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	var got core.EventContext
	onReload := func(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
		got = data
		return true
	}
	listener := &struct{ name string }{"reload"}
	core.EventRegister(core.EVENT_CODE_CONFIG_RELOADED, listener, onReload)
	defer core.EventUnregister(core.EVENT_CODE_CONFIG_RELOADED, listener, onReload)

	next := testConfig()
	next.Chunk.ViewDistance = 3
	e.applyConfig(next)

	if got.Data.C[0] != "terra.toml" || got.Data.I32[0] != 3 {
		t.Errorf("reload event carried %q, %d", got.Data.C[0], got.Data.I32[0])
	}
}
