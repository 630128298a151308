// Package device describes the hardware a run executes on and decides how
// many goroutines the training kernels use.
package device

import "fmt"
import "runtime"
import "strings"

import "github.com/klauspost/cpuid/v2"
import "github.com/pkg/errors"

// GPU is one CUDA device visible to the process
type GPU struct {
	Index  int
	Name   string
	Memory int64
}

// Device is the compute device selected for a run
type Device struct {
	Kind    string // "cpu"
	Name    string
	Threads int
	GPUs    []GPU
}

// ErrUnsupported reports a device name the kernels cannot run on
var ErrUnsupported = errors.New("unsupported device")

// Select resolves a configured device name. "auto" and "" pick the CPU with
// every logical core, "cpu" does the same, "cpu:N" limits the kernels to N
// goroutines.
func Select(name string) (Device, error) {
	threads := cpuid.CPU.LogicalCores
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	switch {
	case name == "", name == "auto", name == "cpu":
	case strings.HasPrefix(name, "cpu:"):
		var n int
		if _, err := fmt.Sscanf(name, "cpu:%d", &n); err != nil || n < 1 {
			return Device{}, errors.Wrapf(ErrUnsupported, "bad thread count in %q", name)
		}
		threads = n
	default:
		return Device{}, errors.Wrapf(ErrUnsupported, "%q, expected auto, cpu or cpu:N", name)
	}
	gpus, _ := probeGPUs()
	return Device{
		Kind:    "cpu",
		Name:    cpuName(),
		Threads: threads,
		GPUs:    gpus,
	}, nil
}

func cpuName() string {
	name := strings.TrimSpace(cpuid.CPU.BrandName)
	if name == "" {
		name = runtime.GOARCH
	}
	var feats []string
	for _, f := range []struct {
		id   cpuid.FeatureID
		name string
	}{{cpuid.AVX2, "avx2"}, {cpuid.AVX512F, "avx512f"}, {cpuid.FMA3, "fma3"}} {
		if cpuid.CPU.Supports(f.id) {
			feats = append(feats, f.name)
		}
	}
	if len(feats) > 0 {
		name += " (" + strings.Join(feats, ",") + ")"
	}
	return name
}

// String describes the device for the run log
func (d Device) String() string {
	s := fmt.Sprintf("%s %s, %d threads", d.Kind, d.Name, d.Threads)
	for _, g := range d.GPUs {
		s += fmt.Sprintf("; cuda:%d %s %d MiB total", g.Index, g.Name, g.Memory>>20)
	}
	return s
}
