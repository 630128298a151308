package main

import "context"
import "fmt"
import "os"
import "os/signal"
import "path"
import "syscall"

import "github.com/prometheus/client_golang/prometheus"
import "github.com/spf13/afero"
import "github.com/spf13/cobra"
import "go.uber.org/zap"

import "github.com/neurlang/seqtrain/config"
import "github.com/neurlang/seqtrain/device"
import "github.com/neurlang/seqtrain/logging"
import "github.com/neurlang/seqtrain/tracker"
import "github.com/neurlang/seqtrain/trainer"

var rootCmd = &cobra.Command{
	Use:           "train_sequence",
	Short:         "Train the sequence classifier",
	Long:          `Trains the sequence classifier on CSV datasets, keeps the best checkpoint by validation accuracy and evaluates the kept checkpoints on the test set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().String("config", "", "YAML configuration file, flags override its values")
	rootCmd.Flags().String("cpuprofile", "", "write a CPU profile to this file")
	defaults, _ := config.Default().Snapshot()
	for _, key := range config.Keys() {
		rootCmd.Flags().String(key, fmt.Sprint(defaults[key]), "configuration value "+key)
	}
}

// configure merges defaults, the configuration file and the changed flags
func configure(cmd *cobra.Command, fs afero.Fs) (config.Config, error) {
	cfg := config.Default()
	if file, _ := cmd.Flags().GetString("config"); file != "" {
		var err error
		if cfg, err = config.Load(fs, file, cfg); err != nil {
			return cfg, err
		}
	}
	overrides := make(map[string]string)
	for _, key := range config.Keys() {
		if cmd.Flags().Changed(key) {
			overrides[key], _ = cmd.Flags().GetString(key)
		}
	}
	cfg, err := config.Override(cfg, overrides)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func trackers(cfg config.Config, fs afero.Fs, log *zap.Logger) (*tracker.Multi, func(), error) {
	var ts []tracker.Tracker
	stop := func() {}
	if cfg.TrackerFile != "" {
		f, err := tracker.NewFile(fs, cfg.TrackerFile)
		if err != nil {
			return nil, stop, err
		}
		ts = append(ts, f)
	}
	if cfg.RedisAddr != "" {
		ts = append(ts, tracker.NewRedis(cfg.RedisAddr))
	}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		p, err := tracker.NewPrometheus(reg)
		if err != nil {
			return nil, stop, err
		}
		ts = append(ts, p)
		stop = serveMetrics(cfg.MetricsAddr, reg, log)
	}
	return tracker.NewMulti(log, ts...), stop, nil
}

func run(cmd *cobra.Command, _ []string) error {
	fs := afero.NewOsFs()
	cfg, err := configure(cmd, fs)
	if err != nil {
		return err
	}

	profile, _ := cmd.Flags().GetString("cpuprofile")
	stopProfile, err := startProfile(profile)
	if err != nil {
		return err
	}
	defer stopProfile()

	log, closeLog, err := logging.New(fs, cfg.LogFile())
	if err != nil {
		return err
	}
	defer closeLog()

	dev, err := device.Select(cfg.Device)
	if err != nil {
		return err
	}
	log.Info("device", zap.Stringer("device", dev))

	multi, stopMetrics, err := trackers(cfg, fs, log)
	if err != nil {
		return err
	}
	defer stopMetrics()
	defer multi.Close()

	if err := cfg.Save(fs, path.Join(cfg.CheckpointDir(), "config.yaml")); err != nil {
		log.Warn("configuration snapshot not written", zap.Error(err))
	}

	o, err := trainer.Prepare(cfg, trainer.Env{
		Fs:      fs,
		Log:     log,
		Tracker: multi,
		Threads: dev.Threads,
	})
	if err != nil {
		log.Error("setup failed", zap.Error(err))
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if _, err := o.Run(ctx); err != nil {
		log.Error("training failed", zap.Error(err))
		return err
	}
	log.Info("Any desired statistics have been plotted. The experiment is finished.")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
