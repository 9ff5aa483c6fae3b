//go:build mage

// Package main provides build targets for taskshelf using Mage.
//
// Usage:
//
//	mage build     Compile the taskshelf binary to bin/
//	mage test      Run all tests
//	mage cover     Run all tests with a coverage profile in bin/
//	mage lint      Run golangci-lint
//	mage clean     Remove build artifacts
//	mage install   Install taskshelf to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "taskshelf"
	binaryDir  = "bin"
	cmdDir     = "./cmd/taskshelf"
	versionVar = "github.com/mesh-intelligence/taskshelf/internal/cli.Version"
)

// Build compiles the taskshelf binary to bin/. The version is taken from
// `git describe` when available.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty"); err == nil && version != "" {
		args = append(args, "-ldflags", "-X "+versionVar+"="+strings.TrimPrefix(version, "v"))
	}
	return sh.RunV("go", append(args, cmdDir)...)
}

// Test runs all tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover runs all tests and writes bin/coverage.out.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "coverage.out")
	if err := sh.RunV("go", "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func", profile)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
