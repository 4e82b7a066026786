package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/terra/engine/config"
	"github.com/spaghettifunk/terra/engine/core"
	"github.com/spaghettifunk/terra/engine/scene"
	"github.com/spaghettifunk/terra/engine/systems"
)

// ErrQuit is returned by a game update to end the run loop without error.
var ErrQuit = errors.New("quit requested")

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *config.Config
	watcher       *config.Watcher
	graph         *scene.Memory
	systemManager *systems.SystemManager
	clock         *core.Clock
	metrics       *core.FrameMetrics
	lastTime      float64
	lastStats     time.Time
	quitRequested bool
	shutdownOnce  sync.Once
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		return nil, fmt.Errorf("the game has no application config")
	}
	cfg := g.ApplicationConfig.Config
	if cfg == nil {
		cfg = config.Default()
		g.ApplicationConfig.Config = cfg
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	applyLogLevel(cfg)

	graph := scene.NewMemory()
	sm, err := systems.NewSystemManager(cfg, graph)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	g.SystemManager = sm
	g.Scene = graph

	e := &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		config:        cfg,
		graph:         graph,
		systemManager: sm,
		clock:         core.NewClock(),
		metrics:       core.NewFrameMetrics(),
	}
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	app := e.gameInstance.ApplicationConfig
	if app.WatchConfig && app.ConfigPath != "" {
		w, err := config.NewWatcher(app.ConfigPath)
		if err != nil {
			return err
		}
		e.watcher = w
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			core.LogError("game failed to initialize: %s", err.Error())
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized", app.Name)
	return nil
}

// Run ticks the engine at the configured rate until ctx is cancelled, the game
// asks to quit, or the terrain pipeline goes down.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()
	e.lastStats = e.clock.Now()

	tickRate := e.config.Engine.TickRate.Duration()
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	var updates <-chan *config.Config
	if e.watcher != nil {
		updates = e.watcher.Updates()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case cfg := <-updates:
			e.applyConfig(cfg)
			if d := e.config.Engine.TickRate.Duration(); d != tickRate {
				tickRate = d
				ticker.Reset(tickRate)
			}

		case <-ticker.C:
			err := e.tick()
			if errors.Is(err, ErrQuit) || (err == nil && e.quitRequested) {
				core.LogInfo("quit requested, leaving the run loop")
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

func (e *Engine) tick() error {
	e.clock.Update()
	currentTime := e.clock.Elapsed()
	delta := currentTime - e.lastTime

	if err := e.systemManager.Update(delta); err != nil {
		core.LogError("terrain update failed: %s", err.Error())
		var ctx core.EventContext
		ctx.Data.C[0] = err.Error()
		core.EventFire(core.EVENT_CODE_PIPELINE_DOWN, e, ctx)
		return err
	}

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			if !errors.Is(err, ErrQuit) {
				core.LogError("game update failed, shutting down: %s", err.Error())
			}
			return err
		}
	}

	e.metrics.Update(delta)
	e.logStats(e.clock.Now())

	e.lastTime = currentTime
	return nil
}

func (e *Engine) logStats(now time.Time) {
	interval := e.config.Engine.StatsInterval.Duration()
	if interval <= 0 || now.Sub(e.lastStats) < interval {
		return
	}
	e.lastStats = now

	s := e.systemManager.Terrain().Stats()
	fps, frameTime := e.metrics.Frame()
	core.LogInfo("ticks/s %.1f (%.2fms) requested %d loading %d cached %d attached %d empty %d",
		fps, frameTime, s.Requested, s.Loading, s.Cached, s.Attached, s.Empty)
	if s.Stuck > 0 {
		core.LogWarn("%d chunks loading for more than %s", s.Stuck, e.config.Pipeline.StuckAfter.Duration())
	}
}

// applyConfig takes the reloadable parts of cfg. Generator, chunk size and
// queue settings only apply on restart.
func (e *Engine) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	applyLogLevel(cfg)
	e.systemManager.Apply(cfg)

	e.config.Log = cfg.Log
	e.config.Engine = cfg.Engine
	e.config.Chunk.ViewDistance = cfg.Chunk.ViewDistance
	e.config.Pipeline.MeshCacheCapacity = cfg.Pipeline.MeshCacheCapacity

	var ctx core.EventContext
	ctx.Data.C[0] = e.gameInstance.ApplicationConfig.ConfigPath
	ctx.Data.I32[0] = cfg.Chunk.ViewDistance
	core.EventFire(core.EVENT_CODE_CONFIG_RELOADED, e, ctx)
}

func applyLogLevel(cfg *config.Config) {
	level, err := core.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		core.LogWarn(err.Error())
		return
	}
	core.SetLogLevel(level)
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		e.quitRequested = true
		return true
	}
	return false
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Shutdown() error {
	var err error
	e.shutdownOnce.Do(func() {
		e.currentStage = EngineStageShuttingDown
		core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
		if e.watcher != nil {
			if werr := e.watcher.Close(); werr != nil {
				core.LogError(werr.Error())
			}
		}
		if e.gameInstance.FnShutdown != nil {
			if gerr := e.gameInstance.FnShutdown(); gerr != nil {
				err = gerr
			}
		}
		if serr := e.systemManager.Shutdown(); serr != nil {
			err = errors.Join(err, serr)
		}
	})
	return err
}
