package tracker

import "context"
import "fmt"
import "strconv"

import backend "github.com/redis/go-redis/v9"

// Redis stores the run in redis: a hash with the configuration, a stream
// with one entry per epoch and a hash of artifacts.
type Redis struct {
	client *backend.Client
	prefix string
	run    string
}

// Option configures a Redis tracker
type Option func(*Redis)

// WithPrefix sets the key prefix, "seqtrain:" by default
func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis connects to the redis server at addr
func NewRedis(addr string, opts ...Option) *Redis {
	return NewRedisFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewRedisFromClient creates a tracker over an existing client
func NewRedisFromClient(client *backend.Client, opts ...Option) *Redis {
	r := &Redis{client: client, prefix: "seqtrain:"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunKey is the hash holding the configuration of a run
func (r *Redis) RunKey(id string) string {
	return r.prefix + "run:" + id
}

// EpochsKey is the stream of epoch metrics of a run
func (r *Redis) EpochsKey(id string) string {
	return r.RunKey(id) + ":epochs"
}

// ArtifactsKey is the hash of artifact paths of a run
func (r *Redis) ArtifactsKey(id string) string {
	return r.RunKey(id) + ":artifacts"
}

func (r *Redis) Start(ctx context.Context, run Run) error {
	r.run = run.ID
	fields := map[string]interface{}{"name": run.Name}
	for k, v := range run.Config {
		fields["config."+k] = fmt.Sprint(v)
	}
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, r.RunKey(run.ID), fields)
	pipe.SAdd(ctx, r.prefix+"runs", run.ID)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) Log(ctx context.Context, m EpochMetrics) error {
	values := map[string]interface{}{
		"epoch":      m.Epoch,
		"train_loss": m.TrainLoss,
		"train_acc":  m.TrainAcc,
		"lr":         m.LearningRate,
	}
	if m.Validated {
		values["val_loss"] = m.ValLoss
		values["val_acc"] = m.ValAcc
		values["val_top5_acc"] = m.ValTop5
		values["best_acc"] = m.BestAcc
	}
	return r.client.XAdd(ctx, &backend.XAddArgs{
		Stream: r.EpochsKey(r.run),
		Values: values,
	}).Err()
}

func (r *Redis) Artifact(ctx context.Context, a Artifact) error {
	return r.client.HSet(ctx, r.ArtifactsKey(r.run),
		a.Name, a.Path,
		a.Name+".epoch", strconv.Itoa(a.Epoch),
		a.Name+".accuracy", strconv.FormatFloat(a.Accuracy, 'g', -1, 64),
	).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
