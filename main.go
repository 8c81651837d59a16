package main

import (
	"os"

	"github.com/careerarchitect/career-architect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
