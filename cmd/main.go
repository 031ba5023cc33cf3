package main

import (
	"os"

	"github.com/skillmesh/skillmesh/cmd/skillmesh"
)

func main() {
	if err := skillmesh.Execute(); err != nil {
		os.Exit(1)
	}
}
