package tracker

import "context"

import "github.com/prometheus/client_golang/prometheus"

// Prometheus exposes the latest epoch scalars as gauges
type Prometheus struct {
	epoch       prometheus.Gauge
	trainLoss   prometheus.Gauge
	trainAcc    prometheus.Gauge
	lr          prometheus.Gauge
	valLoss     prometheus.Gauge
	valAcc      prometheus.Gauge
	valTop5     prometheus.Gauge
	bestAcc     prometheus.Gauge
	checkpoints prometheus.Counter
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "seqtrain", Name: name, Help: help})
}

// NewPrometheus creates the collectors and registers them with reg
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		epoch:     gauge("epoch", "Last finished epoch."),
		trainLoss: gauge("train_loss", "Mean training loss of the last epoch."),
		trainAcc:  gauge("train_accuracy", "Training accuracy of the last epoch."),
		lr:        gauge("learning_rate", "Learning rate of the last epoch."),
		valLoss:   gauge("val_loss", "Mean validation loss of the last epoch."),
		valAcc:    gauge("val_accuracy", "Validation accuracy of the last epoch."),
		valTop5:   gauge("val_top5_accuracy", "Validation top-5 accuracy of the last epoch."),
		bestAcc:   gauge("best_val_accuracy", "Best validation accuracy so far."),
		checkpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seqtrain",
			Name:      "checkpoints_total",
			Help:      "Number of indexed checkpoints written.",
		}),
	}
	for _, c := range []prometheus.Collector{
		p.epoch, p.trainLoss, p.trainAcc, p.lr, p.valLoss, p.valAcc, p.valTop5, p.bestAcc, p.checkpoints,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) Start(context.Context, Run) error {
	return nil
}

func (p *Prometheus) Log(_ context.Context, m EpochMetrics) error {
	p.epoch.Set(float64(m.Epoch))
	p.trainLoss.Set(m.TrainLoss)
	p.trainAcc.Set(m.TrainAcc)
	p.lr.Set(m.LearningRate)
	if m.Validated {
		p.valLoss.Set(m.ValLoss)
		p.valAcc.Set(m.ValAcc)
		p.valTop5.Set(m.ValTop5)
		p.bestAcc.Set(m.BestAcc)
	}
	return nil
}

func (p *Prometheus) Artifact(_ context.Context, a Artifact) error {
	if a.Checkpoint {
		p.checkpoints.Inc()
	}
	return nil
}

func (p *Prometheus) Close() error {
	return nil
}
