package config

import "path"

import "github.com/mitchellh/mapstructure"
import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "gopkg.in/yaml.v3"

// Load reads a YAML file over c. Keys absent from the file keep their value,
// unknown keys are an error.
func Load(fs afero.Fs, filename string, c Config) (Config, error) {
	b, err := afero.ReadFile(fs, filename)
	if err != nil {
		return c, errors.Wrapf(ErrConfig, "read %s: %v", filename, err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return c, errors.Wrapf(ErrConfig, "parse %s: %v", filename, err)
	}
	if err := decode(raw, &c); err != nil {
		return c, errors.Wrapf(ErrConfig, "%s: %v", filename, err)
	}
	return c, nil
}

// Override applies textual values keyed like the YAML file, as given on the
// command line.
func Override(c Config, values map[string]string) (Config, error) {
	if len(values) == 0 {
		return c, nil
	}
	raw := make(map[string]interface{}, len(values))
	for k, v := range values {
		raw[k] = v
	}
	if err := decode(raw, &c); err != nil {
		return c, errors.Wrapf(ErrConfig, "flags: %v", err)
	}
	return c, nil
}

func decode(raw map[string]interface{}, c *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Keys returns every configuration key in declaration order
func Keys() []string {
	return keys
}

var keys = []string{
	"experiment_name", "num_classes", "hidden_dim", "seed",
	"training_set_path", "validation_set_path", "testing_set_path",
	"validation_set", "validation_set_size", "experimental_train_split",
	"epochs", "lr", "momentum", "batch_size", "label_smoothing", "log_freq", "save_checkpoints",
	"schedule", "scheduler_factor", "scheduler_patience", "warmup_steps",
	"gaussian_mean", "gaussian_std",
	"plot_stats", "plot_lr", "device",
	"continue_training", "transfer_learning",
	"out_dir", "img_dir", "log_dir", "tracker_file", "redis_addr", "metrics_addr",
}

// YAML encodes the configuration in the format Load reads
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Snapshot returns the configuration as a flat key value map for trackers
func (c Config) Snapshot() (map[string]interface{}, error) {
	var o map[string]interface{}
	if err := mapstructure.Decode(c, &o); err != nil {
		return nil, err
	}
	return o, nil
}

// Save writes c as YAML to filename, creating its directory
func (c Config) Save(fs afero.Fs, filename string) error {
	b, err := c.YAML()
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(path.Dir(filename), 0755); err != nil {
		return errors.Wrapf(err, "create %s", path.Dir(filename))
	}
	return errors.Wrapf(afero.WriteFile(fs, filename, b, 0644), "write %s", filename)
}
