package main

import "os"
import "runtime/pprof"

// startProfile writes a CPU profile to filename until the returned func is
// called. An empty filename disables profiling.
func startProfile(filename string) (stop func(), err error) {
	if filename == "" {
		return func() {}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}
