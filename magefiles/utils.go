//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// run executes command, streaming its output to the terminal.
func run(command string, args ...string) error {
	fmt.Printf("Executing: %s %s\n", command, strings.Join(args, " "))
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("error executing %s: %w", command, err)
	}
	return nil
}

func goTidy() error {
	if err := run("go", "mod", "tidy"); err != nil {
		return fmt.Errorf("failed to run go mod tidy: %w", err)
	}
	return nil
}
