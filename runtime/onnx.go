package runtime

import (
	"context"
	"fmt"
	"sort"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

func initONNXRuntime() error {
	ortInitOnce.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// onnxSession runs a fixed-shape ONNX model through onnxruntime_go. It holds
// no open runtime session between calls: each Run creates a session from the
// model file at path, runs it once and destroys it. Run is guarded by mu, so
// calls on one onnxSession never overlap.
type onnxSession struct {
	mu           sync.Mutex
	path         string
	outputShapes map[string][]int64
	closed       bool
}

// NewONNXSession initializes the ONNX Runtime environment and returns a
// Session for the model at path, to be run against the given fixed output
// shapes (outputs must be pre-allocated before Run in the onnxruntime_go
// API, so TrustMark's fixed per-model output shapes are supplied up front
// rather than inferred per call). It does not open or check the model file;
// a missing or invalid model surfaces as an error from Run.
func NewONNXSession(path string, outputShapes map[string][]int64) (Session, error) {
	if err := initONNXRuntime(); err != nil {
		return nil, fmt.Errorf("runtime: initializing onnx runtime: %w", err)
	}
	return &onnxSession{path: path, outputShapes: outputShapes}, nil
}

func (s *onnxSession) Run(ctx context.Context, inputs map[string]Tensor) (map[string]Tensor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inputNames := sortedKeys(inputs)
	inputValues := make([]ort.Value, 0, len(inputNames))
	for _, name := range inputNames {
		t := inputs[name]
		tensor, err := ort.NewTensor(ort.NewShape(t.Shape...), t.Data)
		if err != nil {
			return nil, fmt.Errorf("runtime: creating input tensor %q: %w", name, err)
		}
		defer tensor.Destroy()
		inputValues = append(inputValues, tensor)
	}

	outputNames := sortedKeys(s.outputShapes)
	outputTensors := make([]*ort.Tensor[float32], 0, len(outputNames))
	outputValues := make([]ort.Value, 0, len(outputNames))
	for _, name := range outputNames {
		shape := s.outputShapes[name]
		tensor, err := ort.NewEmptyTensor[float32](ort.NewShape(shape...))
		if err != nil {
			return nil, fmt.Errorf("runtime: creating output tensor %q: %w", name, err)
		}
		defer tensor.Destroy()
		outputTensors = append(outputTensors, tensor)
		outputValues = append(outputValues, tensor)
	}

	session, err := ort.NewAdvancedSession(s.path, inputNames, outputNames, inputValues, outputValues, nil)
	if err != nil {
		return nil, fmt.Errorf("runtime: creating session for %q: %w", s.path, err)
	}
	defer session.Destroy()

	if err := session.Run(); err != nil {
		return nil, fmt.Errorf("runtime: running %q: %w", s.path, err)
	}

	outputs := make(map[string]Tensor, len(outputNames))
	for i, name := range outputNames {
		data := outputTensors[i].GetData()
		out := make([]float32, len(data))
		copy(out, data)
		outputs[name] = Tensor{Shape: s.outputShapes[name], Data: out}
	}
	return outputs, nil
}

func (s *onnxSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
