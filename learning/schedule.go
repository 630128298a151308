package learning

import "math"

import "github.com/pkg/errors"

// Schedule decides the learning rate of every epoch
type Schedule interface {

	// Rate returns the learning rate to use for epoch
	Rate(epoch int) float64

	// Observe receives the monitored loss once an epoch finished
	Observe(loss float64)
}

// ScheduleState is the progress of a schedule that depends on past losses.
// The zero value means the schedule has no progress to carry.
type ScheduleState struct {
	Name         string
	LearningRate float64
	Best         float64
	Bad          int
}

// Resumable is a schedule whose progress survives a resume
type Resumable interface {
	Schedule
	State() ScheduleState
	Restore(s ScheduleState) bool
}

// Schedule names accepted by NewSchedule
const (
	ScheduleConstant = "constant"
	SchedulePlateau  = "plateau"
	ScheduleWarmup   = "warmup"
)

// ScheduleConfig collects the parameters of every schedule kind
type ScheduleConfig struct {
	Name         string
	LearningRate float64
	Factor       float64 // plateau: multiplier applied when the loss stalls
	Patience     int     // plateau: epochs without improvement tolerated
	WarmupSteps  int     // warmup: epochs of linear increase
}

// Validate checks the parameters the named schedule uses
func (c ScheduleConfig) Validate() error {
	switch c.Name {
	case "", ScheduleConstant:
	case SchedulePlateau:
		if !(c.Factor > 0 && c.Factor < 1) {
			return errors.Errorf("plateau factor %v outside (0, 1)", c.Factor)
		}
		if c.Patience < 0 {
			return errors.Errorf("plateau patience %d is negative", c.Patience)
		}
	case ScheduleWarmup:
		if c.WarmupSteps < 1 {
			return errors.Errorf("warmup steps %d below 1", c.WarmupSteps)
		}
	default:
		return errors.Errorf("unknown schedule %q", c.Name)
	}
	return nil
}

// NewSchedule creates the named schedule
func NewSchedule(c ScheduleConfig) (Schedule, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Name {
	case SchedulePlateau:
		return NewPlateau(c.LearningRate, c.Factor, c.Patience), nil
	case ScheduleWarmup:
		return Warmup{Peak: c.LearningRate, Steps: c.WarmupSteps}, nil
	}
	return Constant(c.LearningRate), nil
}

// Constant uses the same learning rate for every epoch
type Constant float64

func (c Constant) Rate(int) float64 { return float64(c) }
func (c Constant) Observe(float64)  {}

// Plateau multiplies the learning rate by Factor once the monitored loss has
// not improved for more than Patience epochs.
type Plateau struct {
	lr       float64
	factor   float64
	patience int
	best     float64
	bad      int
}

// relative improvement needed to reset the patience counter
const plateauThreshold = 1e-4

// NewPlateau creates a plateau schedule
func NewPlateau(lr, factor float64, patience int) *Plateau {
	return &Plateau{
		lr:       lr,
		factor:   factor,
		patience: patience,
		best:     math.Inf(1),
	}
}

func (p *Plateau) Rate(int) float64 {
	return p.lr
}

func (p *Plateau) Observe(loss float64) {
	if loss < p.best*(1-plateauThreshold) {
		p.best = loss
		p.bad = 0
		return
	}
	p.bad++
	if p.bad > p.patience {
		p.lr *= p.factor
		p.bad = 0
	}
}

func (p *Plateau) State() ScheduleState {
	return ScheduleState{Name: SchedulePlateau, LearningRate: p.lr, Best: p.best, Bad: p.bad}
}

// Restore continues from s. States of other schedules are ignored.
func (p *Plateau) Restore(s ScheduleState) bool {
	if s.Name != SchedulePlateau {
		return false
	}
	p.lr, p.best, p.bad = s.LearningRate, s.Best, s.Bad
	return true
}

// Warmup increases the rate linearly to Peak over Steps epochs, then decays
// it with the inverse square root of the epoch number.
type Warmup struct {
	Peak  float64
	Steps int
}

func (w Warmup) Rate(epoch int) float64 {
	step := float64(epoch + 1)
	steps := float64(w.Steps)
	if step <= steps {
		return w.Peak * step / steps
	}
	return w.Peak * math.Sqrt(steps/step)
}

func (w Warmup) Observe(float64) {}
