//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "spellbee"

// Default target when mage is run without arguments
var Default = Build

// Build compiles the spellbee binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/spellbee")
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the unit tests with the race detector
func Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check vets and tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install installs the binary into $GOPATH/bin
func Install() error {
	mg.Deps(Vet)
	return sh.RunV("go", "install", "./cmd/spellbee")
}

// Clean removes build artifacts
func Clean() error {
	return os.Remove(binary)
}
