package datasets

import "github.com/pkg/errors"

// ErrPrecondition reports a partition that cannot be split as requested
var ErrPrecondition = errors.New("dataset precondition violated")

// ErrFormat reports a malformed dataset file
var ErrFormat = errors.New("malformed dataset")
