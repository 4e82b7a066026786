package testbed

import (
	"context"
	"testing"
	"time"

	"github.com/spaghettifunk/terra/engine"
	"github.com/spaghettifunk/terra/engine/config"
	"github.com/spaghettifunk/terra/engine/core"
)

func TestGameLoadsViewAndQuits(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.TickRate = config.Duration(time.Millisecond)
	cfg.Engine.StatsInterval = 0
	cfg.Chunk.ViewDistance = 1
	cfg.Pipeline.ResultsPerTick = 8

	tg := NewTestGame(&engine.ApplicationConfig{Name: "testbed", Config: cfg}, true)

	var loaded core.EventContext
	fired := 0
	onLoaded := func(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
		fired++
		loaded = data
		return false
	}
	core.EventRegister(core.EVENT_CODE_VIEW_LOADED, tg, onLoaded)
	defer core.EventUnregister(core.EVENT_CODE_VIEW_LOADED, tg, onLoaded)

	e, err := engine.New(tg.Game)
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
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Fatal("the testbed did not quit after loading its view")
	}

	if fired != 1 {
		t.Fatalf("view loaded fired %d times, want 1", fired)
	}
	if got := loaded.Data.I32[0] + loaded.Data.I32[1]; got != 8 {
		t.Errorf("view loaded reported %d chunks, want 8", got)
	}
	if tg.Scene.AttachedCount() != int(loaded.Data.I32[0]) {
		t.Errorf("scene has %d meshes, event reported %d", tg.Scene.AttachedCount(), loaded.Data.I32[0])
	}
}
