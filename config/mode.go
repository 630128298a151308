package config

// Mode selects how the model and optimizer are obtained
type Mode interface {
	mode()
}

// Fresh builds a newly initialized model
type Fresh struct{}

// Resume continues a run from the checkpoint at Path
type Resume struct {
	Path string
}

// Transfer reuses the body of the checkpoint at Path and trains a new head
type Transfer struct {
	Path string
}

func (Fresh) mode()    {}
func (Resume) mode()   {}
func (Transfer) mode() {}

// Mode returns the acquisition mode. A validated config has at most one path set.
func (c Config) Mode() Mode {
	switch {
	case c.ContinueTraining != "":
		return Resume{Path: c.ContinueTraining}
	case c.TransferLearning != "":
		return Transfer{Path: c.TransferLearning}
	}
	return Fresh{}
}
