package engine

import (
	"github.com/spaghettifunk/terra/engine/scene"
	"github.com/spaghettifunk/terra/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	Scene             *scene.Memory
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnShutdown        Shutdown
}

type Initialize func() error

// Update runs once per tick after the terrain systems. Returning ErrQuit stops
// the engine cleanly.
type Update func(deltaTime float64) error
type Shutdown func() error
