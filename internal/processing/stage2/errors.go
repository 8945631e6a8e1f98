package stage2

import "errors"

var errDimensionMismatch = errors.New("embedding dimension mismatch")
