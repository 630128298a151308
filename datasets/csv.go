package datasets

import "sort"
import "strconv"
import "strings"

import "github.com/gocarina/gocsv"
import "github.com/pkg/errors"
import "github.com/spf13/afero"

// Frames is the CSV cell encoding of a sequence: frames separated by ';',
// values inside a frame separated by spaces.
type Frames [][]float64

// UnmarshalCSV parses a frames cell
func (f *Frames) UnmarshalCSV(cell string) error {
	*f = nil
	for _, frame := range strings.Split(strings.TrimSpace(cell), ";") {
		fields := strings.Fields(frame)
		if len(fields) == 0 {
			continue
		}
		values := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return errors.Wrapf(ErrFormat, "frame value %q", field)
			}
			values[i] = v
		}
		*f = append(*f, values)
	}
	return nil
}

// MarshalCSV formats a frames cell
func (f Frames) MarshalCSV() (string, error) {
	var b strings.Builder
	for i, frame := range f {
		if i > 0 {
			b.WriteByte(';')
		}
		for j, v := range frame {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	return b.String(), nil
}

// Row is one line of a dataset CSV file
type Row struct {
	Label  string `csv:"label"`
	Frames Frames `csv:"frames"`
}

// Load reads a dataset CSV file. When labels is nil the class names are the
// sorted distinct labels of the file; otherwise every label of the file must
// be one of labels.
func Load(fs afero.Fs, path string, labels []string, augment bool) (Partition, error) {
	file, err := fs.Open(path)
	if err != nil {
		return Partition{}, errors.Wrapf(err, "open dataset %s", path)
	}
	defer file.Close()

	var rows []*Row
	if err := gocsv.Unmarshal(file, &rows); err != nil {
		return Partition{}, errors.Wrapf(ErrFormat, "dataset %s: %v", path, err)
	}
	if labels == nil {
		labels = distinctLabels(rows)
	}
	index := make(map[string]int, len(labels))
	for i, name := range labels {
		index[name] = i
	}

	var samples = make([]Sample, 0, len(rows))
	var dim = -1
	for line, row := range rows {
		class, ok := index[row.Label]
		if !ok {
			return Partition{}, errors.Wrapf(ErrFormat, "dataset %s row %d: unknown class %q", path, line+1, row.Label)
		}
		if len(row.Frames) == 0 {
			return Partition{}, errors.Wrapf(ErrFormat, "dataset %s row %d: empty sequence", path, line+1)
		}
		for _, frame := range row.Frames {
			if dim == -1 {
				dim = len(frame)
			}
			if len(frame) != dim {
				return Partition{}, errors.Wrapf(ErrFormat, "dataset %s row %d: frame width %d, expected %d",
					path, line+1, len(frame), dim)
			}
		}
		samples = append(samples, Sample{Frames: row.Frames, Label: class})
	}
	return NewPartition(samples, labels, augment), nil
}

// Save writes a partition as a dataset CSV file
func Save(fs afero.Fs, path string, p Partition) error {
	var rows = make([]*Row, len(p.Samples))
	for i, s := range p.Samples {
		rows[i] = &Row{Label: p.ClassName(s.Label), Frames: s.Frames}
	}
	file, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&rows, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func distinctLabels(rows []*Row) []string {
	seen := make(map[string]struct{})
	var o []string
	for _, row := range rows {
		if _, ok := seen[row.Label]; !ok {
			seen[row.Label] = struct{}{}
			o = append(o, row.Label)
		}
	}
	sort.Strings(o)
	return o
}
