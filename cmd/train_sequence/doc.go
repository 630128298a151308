// Package main provides the training program for the sequence classifier. It
// loads the configured datasets, trains for a fixed number of epochs keeping
// the checkpoint with the best validation accuracy, evaluates every kept
// checkpoint on the test set and draws the training charts.
package main
