package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"
	"sync"
)

// startCPUProfile writes a CPU profile of the whole run to path. The stop
// function flushes it and may be called more than once.
func startCPUProfile(path string) (stop func(), err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("pprof: %w", err)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			pprof.StopCPUProfile()
			if err := f.Close(); err != nil {
				slog.Warn("closing cpu profile", "path", path, "err", err)
				return
			}
			slog.Info("cpu profile written", "path", path)
		})
	}, nil
}
