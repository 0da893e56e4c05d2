package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const statsAddress = "localhost:12600"

// launchStatsView serves Go runtime charts (heap, GC, goroutines) in the
// background. Useful when tuning the instruction rate.
func launchStatsView(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(statsAddress))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "stats server available at http://%s/debug/statsview\n", statsAddress)
}
