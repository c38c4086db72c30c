// Package runtime provides the external neural inference collaborator:
// a Session abstraction over a loaded model, plus an ONNX Runtime–backed
// implementation used by the trustmark orchestrator to run the encoder and
// decoder models.
package runtime

import (
	"context"
	"errors"
)

// ErrSessionClosed is returned by Run once a Session has been closed.
var ErrSessionClosed = errors.New("runtime: session is closed")

// Tensor is a named float32 tensor: a flat row-major data buffer plus its
// shape.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// Session is a loaded inference model. Implementations must serialize calls
// to Run internally; callers may share a Session read-only across
// goroutines.
type Session interface {
	// Run executes the model against named input tensors, returning named
	// output tensors. The set of valid input/output names is fixed by the
	// model and is not validated generically here.
	Run(ctx context.Context, inputs map[string]Tensor) (map[string]Tensor, error)

	// Close releases the underlying runtime resources. Run after Close
	// returns ErrSessionClosed.
	Close() error
}
