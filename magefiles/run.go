//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Streams terrain around the origin using terra.toml.
func (Run) Terra() error {
	fmt.Println("Run terra...")
	return run("go", "run", ".", "-config", "terra.toml")
}

// Streams the view once and exits when every chunk is attached.
func (Run) Once() error {
	if err := (Build{}).Terra(); err != nil {
		return err
	}
	return run("bin/terra", "-config", "terra.toml", "-once")
}
