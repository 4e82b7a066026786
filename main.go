/*
Streams voxel terrain around the origin and logs pipeline progress.
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/terra/engine"
	"github.com/spaghettifunk/terra/engine/config"
	"github.com/spaghettifunk/terra/engine/core"
	"github.com/spaghettifunk/terra/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML or YAML config file")
	watch := flag.Bool("watch", true, "reload the config file when it changes")
	once := flag.Bool("once", false, "exit once the view has been loaded")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("failed to load config: %s", err.Error())
	}

	tb := testbed.NewTestGame(&engine.ApplicationConfig{
		Name:        "Terra",
		ConfigPath:  *configPath,
		WatchConfig: *watch,
		Config:      cfg,
	}, *once)

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal(err.Error())
	}

	// capture sigterm and other system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err.Error())
	}
	if runErr != nil {
		core.LogError(runErr.Error())
		os.Exit(1)
	}
}
