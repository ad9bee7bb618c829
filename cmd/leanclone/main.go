// Package main is the entry point for the leanclone CLI tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mrz1836/go-leanclone/internal/cli"
	"github.com/mrz1836/go-leanclone/internal/output"
)

// errPanicRecovered is returned when a panic is recovered during application execution.
var errPanicRecovered = errors.New("panic recovered")

func main() {
	app := NewApp()
	if err := app.Run(context.Background()); err != nil {
		os.Exit(1)
	}
}

// CLIExecutor defines interface for CLI execution
type CLIExecutor interface {
	Execute(ctx context.Context, out output.Writer) error
}

// DefaultCLIExecutor implements CLIExecutor using the cli package
type DefaultCLIExecutor struct{}

// Execute runs the cobra command tree
func (d *DefaultCLIExecutor) Execute(ctx context.Context, out output.Writer) error {
	return cli.ExecuteWithContext(ctx, out)
}

// App represents the main application with testable components
type App struct {
	out         output.Writer
	cliExecutor CLIExecutor
}

// NewApp creates a new App instance with default implementations
func NewApp() *App {
	return &App{
		out:         output.NewColoredWriter(os.Stdout, os.Stderr),
		cliExecutor: &DefaultCLIExecutor{},
	}
}

// NewAppWithDependencies creates a new App instance with injectable dependencies.
// Panics if either dependency is nil to fail fast during initialization.
func NewAppWithDependencies(out output.Writer, cliExecutor CLIExecutor) *App {
	if out == nil {
		panic("out must not be nil")
	}
	if cliExecutor == nil {
		panic("cliExecutor must not be nil")
	}
	return &App{out: out, cliExecutor: cliExecutor}
}

// Run executes the application and prints any error
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.out.Error(fmt.Sprintf("Fatal error: %v\n%s", r, debug.Stack()))
			err = fmt.Errorf("%w: %v", errPanicRecovered, r)
		}
	}()

	err = a.cliExecutor.Execute(ctx, a.out)
	if err != nil {
		a.out.Error(err.Error())
	}
	return err
}
