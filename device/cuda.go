//go:build cuda

package device

import "gorgonia.org/cu"

func probeGPUs() ([]GPU, error) {
	n, err := cu.NumDevices()
	if err != nil {
		return nil, err
	}
	var o []GPU
	for i := 0; i < n; i++ {
		d := cu.Device(i)
		name, err := d.Name()
		if err != nil {
			return o, err
		}
		mem, err := d.TotalMem()
		if err != nil {
			return o, err
		}
		o = append(o, GPU{Index: i, Name: name, Memory: mem})
	}
	return o, nil
}
