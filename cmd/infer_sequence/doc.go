// Package main provides a program evaluating one checkpoint of the sequence
// classifier on a CSV dataset. It prints the accuracy, the top-k accuracy and
// the per-class table, and can write the per-sample predictions.
package main
