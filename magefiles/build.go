//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the module and builds the terra binary into bin/.
func (Build) Terra() error {
	if err := goTidy(); err != nil {
		return err
	}
	return run("go", "build", "-o", "bin/terra", ".")
}

// Runs every package test with the race detector.
func (Build) Test() error {
	return run("go", "test", "-race", "./...")
}
