//go:build mage

// Magefile for leanclone fixture tasks
package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/mrz1836/go-leanclone/internal/parity"
)

// fixtureDir is the default data_dir of the parity matrix
const fixtureDir = "test/data/.cloned"

// Commander interface allows for dependency injection in tests
type Commander interface {
	RunV(cmd string, args ...string) error
}

// ShCommander wraps sh.RunV for production use
type ShCommander struct{}

// RunV implements Commander interface
func (s ShCommander) RunV(cmd string, args ...string) error {
	return sh.RunV(cmd, args...)
}

//nolint:gochecknoglobals // mage targets are package-level functions
var commander Commander = ShCommander{}

// Test runs unit tests without network or slow git fixtures
func Test() error {
	fmt.Println("Running unit tests...")
	return commander.RunV("go", "test", "-short", "-race", "./...")
}

// TestIntegration runs every test including local git fixtures
func TestIntegration() error {
	fmt.Println("Running unit and integration tests...")
	return commander.RunV("go", "test", "-race", "-timeout=20m", "./...")
}

// Parity runs the listing parity matrix against real repositories
func Parity() error {
	fmt.Println("Running listing parity matrix (clones real repositories)...")
	return commander.RunV("go", "test", "-tags=parity", "-run=TestListingParity", "-timeout=120m", "./internal/parity/")
}

// Fixtures builds the lean clone of every matrix case without comparing listings
func Fixtures() error {
	for _, c := range parity.DefaultCases() {
		if c.Self || c.Skip != "" {
			continue
		}
		fmt.Printf("Building %s...\n", c)
		if err := commander.RunV("go", "run", "./cmd/leanclone", "clone", c.Source, c.Ref); err != nil {
			return err
		}
	}
	return nil
}

// FixturesRebuild removes every cached lean clone and builds them again
func FixturesRebuild() error {
	mg.SerialDeps(FixturesClean, Fixtures)
	return nil
}

// FixturesClean removes cached lean clones, stamps and locks
func FixturesClean() error {
	dir := fixtureDir
	if env := os.Getenv("LEANCLONE_DATA_DIR"); env != "" {
		dir = env
	}
	fmt.Printf("Removing %s...\n", dir)
	return sh.Rm(dir)
}
