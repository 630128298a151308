//go:build !cuda

package device

func probeGPUs() ([]GPU, error) {
	return nil, nil
}
