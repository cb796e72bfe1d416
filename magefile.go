//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "geet"

// Default target when running mage without arguments
var Default = Build

// Build compiles the geet binary into ./bin
func Build() error {
	mg.Deps(Vet)
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", filepath.Join("bin", binary), "./cmd/geet")
}

// Test runs all unit tests. Integration tests run when OPENAI_API_KEY is set.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs geet into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/geet")
}

// Clean removes build output
func Clean() error {
	return os.RemoveAll("bin")
}
