// Package trainer runs a training experiment: it acquires the model and
// optimizer, drives the train and validate cycle epoch by epoch, keeps the
// best checkpoint by validation accuracy and finally evaluates every kept
// checkpoint against the test partition.
package trainer
