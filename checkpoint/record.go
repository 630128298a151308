// Package checkpoint persists training checkpoints as snappy framed msgpack
// maps on an afero file system.
package checkpoint

import "sort"

import "github.com/tinylib/msgp/msgp"

import "github.com/neurlang/seqtrain/learning"
import "github.com/neurlang/seqtrain/tensor"

// Record is one persisted training snapshot. Schedule and BestAccuracy are
// the run progress a resumed run continues from.
type Record struct {
	Epoch        int
	Model        map[string]tensor.Tensor
	Optimizer    learning.OptimizerState
	Loss         float64
	Schedule     learning.ScheduleState
	BestAccuracy float64
}

// EncodeMsg implements msgp.Encodable
func (r *Record) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(6); err != nil {
		return err
	}
	if err := en.WriteString("epoch"); err != nil {
		return err
	}
	if err := en.WriteInt(r.Epoch); err != nil {
		return err
	}
	if err := en.WriteString("model_state"); err != nil {
		return err
	}
	if err := encodeTensors(en, r.Model); err != nil {
		return err
	}
	if err := en.WriteString("optimizer_state"); err != nil {
		return err
	}
	if err := encodeOptimizer(en, r.Optimizer); err != nil {
		return err
	}
	if err := en.WriteString("loss"); err != nil {
		return err
	}
	if err := en.WriteFloat64(r.Loss); err != nil {
		return err
	}
	if err := en.WriteString("schedule_state"); err != nil {
		return err
	}
	if err := encodeSchedule(en, r.Schedule); err != nil {
		return err
	}
	if err := en.WriteString("best_accuracy"); err != nil {
		return err
	}
	return en.WriteFloat64(r.BestAccuracy)
}

// DecodeMsg implements msgp.Decodable. Unknown keys are skipped.
func (r *Record) DecodeMsg(dc *msgp.Reader) error {
	sz, err := dc.ReadMapHeader()
	if err != nil {
		return err
	}
	*r = Record{}
	for ; sz > 0; sz-- {
		key, err := dc.ReadString()
		if err != nil {
			return err
		}
		switch key {
		case "epoch":
			r.Epoch, err = dc.ReadInt()
		case "model_state":
			r.Model, err = decodeTensors(dc)
		case "optimizer_state":
			r.Optimizer, err = decodeOptimizer(dc)
		case "loss":
			r.Loss, err = dc.ReadFloat64()
		case "schedule_state":
			r.Schedule, err = decodeSchedule(dc)
		case "best_accuracy":
			r.BestAccuracy, err = dc.ReadFloat64()
		default:
			err = dc.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeOptimizer(en *msgp.Writer, s learning.OptimizerState) error {
	if err := en.WriteMapHeader(3); err != nil {
		return err
	}
	if err := en.WriteString("lr"); err != nil {
		return err
	}
	if err := en.WriteFloat64(s.LearningRate); err != nil {
		return err
	}
	if err := en.WriteString("momentum"); err != nil {
		return err
	}
	if err := en.WriteFloat64(s.Momentum); err != nil {
		return err
	}
	if err := en.WriteString("velocity"); err != nil {
		return err
	}
	return encodeTensors(en, s.Velocity)
}

func decodeOptimizer(dc *msgp.Reader) (s learning.OptimizerState, err error) {
	sz, err := dc.ReadMapHeader()
	if err != nil {
		return s, err
	}
	for ; sz > 0; sz-- {
		key, err := dc.ReadString()
		if err != nil {
			return s, err
		}
		switch key {
		case "lr":
			s.LearningRate, err = dc.ReadFloat64()
		case "momentum":
			s.Momentum, err = dc.ReadFloat64()
		case "velocity":
			s.Velocity, err = decodeTensors(dc)
		default:
			err = dc.Skip()
		}
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

func encodeSchedule(en *msgp.Writer, s learning.ScheduleState) error {
	if err := en.WriteMapHeader(4); err != nil {
		return err
	}
	if err := en.WriteString("name"); err != nil {
		return err
	}
	if err := en.WriteString(s.Name); err != nil {
		return err
	}
	if err := en.WriteString("lr"); err != nil {
		return err
	}
	if err := en.WriteFloat64(s.LearningRate); err != nil {
		return err
	}
	if err := en.WriteString("best"); err != nil {
		return err
	}
	if err := en.WriteFloat64(s.Best); err != nil {
		return err
	}
	if err := en.WriteString("bad"); err != nil {
		return err
	}
	return en.WriteInt(s.Bad)
}

func decodeSchedule(dc *msgp.Reader) (s learning.ScheduleState, err error) {
	sz, err := dc.ReadMapHeader()
	if err != nil {
		return s, err
	}
	for ; sz > 0; sz-- {
		key, err := dc.ReadString()
		if err != nil {
			return s, err
		}
		switch key {
		case "name":
			s.Name, err = dc.ReadString()
		case "lr":
			s.LearningRate, err = dc.ReadFloat64()
		case "best":
			s.Best, err = dc.ReadFloat64()
		case "bad":
			s.Bad, err = dc.ReadInt()
		default:
			err = dc.Skip()
		}
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

// tensors are written in name order so equal records encode to equal bytes
func encodeTensors(en *msgp.Writer, m map[string]tensor.Tensor) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	if err := en.WriteMapHeader(uint32(len(names))); err != nil {
		return err
	}
	for _, name := range names {
		t := m[name]
		if err := en.WriteString(name); err != nil {
			return err
		}
		if err := en.WriteArrayHeader(uint32(len(t.Shape))); err != nil {
			return err
		}
		for _, d := range t.Shape {
			if err := en.WriteInt(d); err != nil {
				return err
			}
		}
		if err := en.WriteArrayHeader(uint32(len(t.Data))); err != nil {
			return err
		}
		for _, v := range t.Data {
			if err := en.WriteFloat64(v); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeTensors(dc *msgp.Reader) (map[string]tensor.Tensor, error) {
	sz, err := dc.ReadMapHeader()
	if err != nil {
		return nil, err
	}
	m := make(map[string]tensor.Tensor, sz)
	for ; sz > 0; sz-- {
		name, err := dc.ReadString()
		if err != nil {
			return nil, err
		}
		dims, err := dc.ReadArrayHeader()
		if err != nil {
			return nil, err
		}
		t := tensor.Tensor{Shape: make([]int, dims)}
		for i := range t.Shape {
			if t.Shape[i], err = dc.ReadInt(); err != nil {
				return nil, err
			}
		}
		n, err := dc.ReadArrayHeader()
		if err != nil {
			return nil, err
		}
		t.Data = make([]float64, n)
		for i := range t.Data {
			if t.Data[i], err = dc.ReadFloat64(); err != nil {
				return nil, err
			}
		}
		m[name] = t
	}
	return m, nil
}
