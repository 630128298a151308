package checkpoint

import "io"
import "os"
import "path"
import "strconv"

import "github.com/golang/snappy"
import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "github.com/tinylib/msgp/msgp"

// ErrLoad reports a checkpoint that is missing or cannot be decoded
var ErrLoad = errors.New("cannot load checkpoint")

// BestName is the file holding the best checkpoint so far
const BestName = "checkpoint_best.ckpt"

// IndexName is the file holding checkpoint number i
func IndexName(i int) string {
	return "checkpoint_v_" + strconv.Itoa(i) + ".ckpt"
}

// Store reads and writes checkpoints in one directory
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates a store rooted at dir
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Path returns the location of the named checkpoint
func (s *Store) Path(name string) string {
	if path.IsAbs(name) || s.dir == "" {
		return name
	}
	return path.Join(s.dir, name)
}

// SaveBest overwrites the best checkpoint
func (s *Store) SaveBest(r *Record) error {
	return s.Save(BestName, r)
}

// SaveIndexed writes checkpoint number i
func (s *Store) SaveIndexed(i int, r *Record) error {
	return s.Save(IndexName(i), r)
}

// Save writes r under name through a temporary file and a rename
func (s *Store) Save(name string, r *Record) error {
	if s.dir != "" {
		if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
			return errors.Wrapf(err, "create checkpoint directory %s", s.dir)
		}
	}
	dst := s.Path(name)
	tmp := dst + ".tmp"
	f, err := s.fs.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "create %s", tmp)
	}
	if err := Encode(f, r); err != nil {
		f.Close()
		s.fs.Remove(tmp)
		return errors.Wrapf(err, "write %s", dst)
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(tmp)
		return errors.Wrapf(err, "close %s", tmp)
	}
	if err := s.fs.Rename(tmp, dst); err != nil {
		return errors.Wrapf(err, "rename %s", tmp)
	}
	return nil
}

// Load reads the named checkpoint. Missing or undecodable files fail with ErrLoad.
func (s *Store) Load(name string) (*Record, error) {
	p := s.Path(name)
	f, err := s.fs.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrLoad, "%s does not exist", p)
		}
		return nil, errors.Wrapf(ErrLoad, "open %s: %v", p, err)
	}
	defer f.Close()
	r, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(ErrLoad, "decode %s: %v", p, err)
	}
	return r, nil
}

// Exists reports whether the named checkpoint is present
func (s *Store) Exists(name string) bool {
	ok, err := afero.Exists(s.fs, s.Path(name))
	return err == nil && ok
}

// Indexed returns the number of consecutive indexed checkpoints present,
// counting from checkpoint 0
func (s *Store) Indexed() (n int) {
	for s.Exists(IndexName(n)) {
		n++
	}
	return
}

// Encode writes r to w as a snappy framed msgpack map
func Encode(w io.Writer, r *Record) error {
	sw := snappy.NewBufferedWriter(w)
	if err := msgp.Encode(sw, r); err != nil {
		return err
	}
	return sw.Close()
}

// Decode reads a record written by Encode
func Decode(rd io.Reader) (*Record, error) {
	r := new(Record)
	if err := msgp.Decode(snappy.NewReader(rd), r); err != nil {
		return nil, err
	}
	return r, nil
}
