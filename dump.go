package main

import (
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/inrick/chip8-go/chip8"
)

// dumpState writes s to path as a graphviz dot graph.
func dumpState(path string, s chip8.State) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump state: %w", err)
	}
	defer f.Close()

	memviz.Map(f, &s)
	log.Infof("machine state written to %s", path)
	return nil
}
