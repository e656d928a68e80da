// Package main is the entry point for the forktend application.
package main

import (
	"github.com/forktend/forktend/cmd"
)

func main() {
	cmd.Execute()
}
