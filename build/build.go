package main

import (
	"os"
	"path/filepath"

	"github.com/roemer/gotaskr"
	"github.com/roemer/gotaskr/execr"
)

// Internal variables
var outputDirectory = ".build-output"

func main() {
	os.Exit(gotaskr.Execute())
}

func init() {
	gotaskr.Task("Build", func() error {
		outputFile := filepath.Join(outputDirectory, "updatefeed")
		return execr.Run(true, "go", "build", "-o", outputFile, "./cmd/updatefeed")
	})

	gotaskr.Task("Test", func() error {
		return execr.Run(true, "go", "test", "./...")
	})

	gotaskr.Task("Vet", func() error {
		return execr.Run(true, "go", "vet", "./...")
	})
}
