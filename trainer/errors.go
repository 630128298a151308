package trainer

import "github.com/pkg/errors"

import "github.com/neurlang/seqtrain/tensor"

// ErrShape reports restored parameters incompatible with the configured dimensions
var ErrShape = tensor.ErrShape

// ErrNumeric reports a loss that is not a finite number
var ErrNumeric = errors.New("non-finite loss")
