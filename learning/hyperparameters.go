package learning

// HyperParameters configure the optimizer and the loss
type HyperParameters struct {
	LearningRate float64 // initial learning rate, schedules start from it
	Momentum     float64 // SGD momentum, 0 disables the velocity buffers

	LabelSmoothing float64 // share of the target mass spread uniformly over all classes

	BatchSize int // samples per optimizer step
	Threads   int // number of goroutines used inside a batch
}

// Default returns the hyper parameters of the reference training setup
func Default() HyperParameters {
	return HyperParameters{
		LearningRate:   0.001,
		LabelSmoothing: 0.1,
		BatchSize:      1,
		Threads:        1,
	}
}
