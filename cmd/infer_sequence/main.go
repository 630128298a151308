package main

import "fmt"
import "math/rand"
import "os"
import "runtime"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "github.com/spf13/cobra"

import "github.com/neurlang/seqtrain/checkpoint"
import "github.com/neurlang/seqtrain/datasets"
import "github.com/neurlang/seqtrain/learning"
import "github.com/neurlang/seqtrain/net/feedforward"
import "github.com/neurlang/seqtrain/report"
import "github.com/neurlang/seqtrain/trainer"

var rootCmd = &cobra.Command{
	Use:           "infer_sequence",
	Short:         "Evaluate a checkpoint of the sequence classifier",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().String("checkpoint", "", "checkpoint file to evaluate")
	rootCmd.Flags().String("data", "", "dataset CSV file to evaluate on")
	rootCmd.Flags().String("training_set_path", "", "training CSV file the class names are taken from, defaults to the evaluated file")
	rootCmd.Flags().String("results", "", "write the per-sample predictions to this CSV file")
	rootCmd.MarkFlagRequired("checkpoint")
	rootCmd.MarkFlagRequired("data")
}

func run(cmd *cobra.Command, _ []string) error {
	fs := afero.NewOsFs()
	ckpt, _ := cmd.Flags().GetString("checkpoint")
	data, _ := cmd.Flags().GetString("data")
	train, _ := cmd.Flags().GetString("training_set_path")
	results, _ := cmd.Flags().GetString("results")

	var labels []string
	if train != "" {
		p, err := datasets.Load(fs, train, nil, false)
		if err != nil {
			return err
		}
		labels = p.Labels
	}
	part, err := datasets.Load(fs, data, labels, false)
	if err != nil {
		return err
	}

	rec, err := checkpoint.NewStore(fs, "").Load(ckpt)
	if err != nil {
		return err
	}
	dims, err := feedforward.DimsOf(rec.Model)
	if err != nil {
		return err
	}
	if d := part.Dim(); d != dims.Input {
		return errors.Errorf("%s has frames of width %d, %s expects %d", data, d, ckpt, dims.Input)
	}
	net, err := feedforward.New(dims, rand.New(rand.NewSource(0)))
	if err != nil {
		return err
	}
	if err := net.LoadStateDict(rec.Model, net.Names()); err != nil {
		return err
	}

	hp := learning.Default()
	hp.Threads = runtime.NumCPU()
	ev, err := trainer.Evaluate(net, &part, hp)
	if err != nil {
		return err
	}

	fmt.Printf("%s (epoch %d) on %s: loss %v acc %v top-%d(acc) %v\n", ckpt, rec.Epoch, data, ev.Loss, ev.Acc, ev.K, ev.TopK)
	for _, row := range trainer.ClassTable(ev, &part, dims.Classes) {
		fmt.Printf("%-24s %5d / %-5d %.4f\n", row.Class, row.Correct, row.Total, row.Accuracy)
	}

	if results != "" {
		rows := make([]report.ResultRow, len(ev.Predictions))
		for i, p := range ev.Predictions {
			rows[i] = report.ResultRow{Predicted: part.ClassName(p.Predicted), Expected: part.ClassName(p.Expected)}
		}
		if err := report.WriteResults(fs, results, rows); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
