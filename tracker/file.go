package tracker

import "context"
import "encoding/json"
import "os"
import "path"
import "sync"

import "github.com/pkg/errors"
import "github.com/spf13/afero"

// File appends every event as one JSON line
type File struct {
	mut sync.Mutex
	f   afero.File
	run string
}

type fileEvent struct {
	Event    string                 `json:"event"`
	Run      string                 `json:"run"`
	Name     string                 `json:"name,omitempty"`
	Config   map[string]interface{} `json:"config,omitempty"`
	Metrics  *EpochMetrics          `json:"metrics,omitempty"`
	Artifact *Artifact              `json:"artifact,omitempty"`
}

// NewFile opens filename for appending
func NewFile(fs afero.Fs, filename string) (*File, error) {
	if dir := path.Dir(filename); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "create tracker directory %s", dir)
		}
	}
	f, err := fs.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open tracker file %s", filename)
	}
	return &File{f: f}, nil
}

func (t *File) write(e fileEvent) error {
	t.mut.Lock()
	defer t.mut.Unlock()
	e.Run = t.run
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = t.f.Write(append(b, '\n'))
	return err
}

func (t *File) Start(_ context.Context, run Run) error {
	t.mut.Lock()
	t.run = run.ID
	t.mut.Unlock()
	return t.write(fileEvent{Event: "start", Name: run.Name, Config: run.Config})
}

func (t *File) Log(_ context.Context, m EpochMetrics) error {
	return t.write(fileEvent{Event: "epoch", Metrics: &m})
}

func (t *File) Artifact(_ context.Context, a Artifact) error {
	return t.write(fileEvent{Event: "artifact", Artifact: &a})
}

func (t *File) Close() error {
	return t.f.Close()
}
