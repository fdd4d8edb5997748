// Package pipeline models just enough of the darkroom pipe — the module
// stack, region of interest, and a trivial in-memory pipe implementation —
// to drive internal/fingerprint and pixelcache from tests, benchmarks, and
// the example programs. The real pipe (ordering UI, per-module GUI, preset
// lists, the rawprepare kernel itself) lives entirely outside this repo;
// this package exists only to give the cache's collaborator interfaces a
// concrete, realistic shape to be exercised against.
//
// © 2025 pixelcache authors. MIT License.
package pipeline

import "errors"

// Kind distinguishes the pipe variants a darkroom session may run: a fast,
// low-resolution preview pipe, the full-resolution pipe used for the final
// export, and an export-only variant that may skip GUI-only modules.
type Kind uint8

const (
	Preview Kind = iota + 1
	Full
	Export
)

// Module is one stage of the pipe. OpName+Instance+Version identify *what*
// runs; ParamBlob and BlendBlob are opaque serialized parameter buffers
// (the cache never interprets them, only hashes their bytes); Enabled
// mirrors the pipe's current on/off state for this stage.
type Module struct {
	OpName    string
	Instance  int32
	Version   int32
	Enabled   bool
	ParamBlob []byte
	BlendBlob []byte
}

// ROI (region of interest) is the integer rectangle plus scale factor that
// identifies which portion of the image, at what zoom, a module will
// produce. Two requests for the same logical intermediate but different
// viewports carry the same BasicHash but different full Hash (§1 Fingerprint).
type ROI struct {
	X, Y          int32
	Width, Height int32
	Scale         float64
}

// Pipe is the read-only view of the module stack that internal/fingerprint
// consumes. Modules() must return modules in pipe order; position k in the
// fingerprint functions indexes directly into this slice.
type Pipe interface {
	Kind() Kind
	Modules() []Module
}

// InMemoryPipe is a minimal Pipe used by tests, benchmarks and example
// programs. Production hosts have their own pipe implementation backed by
// the real module/preset machinery; this one exists purely to exercise the
// fingerprint and cache packages with realistic data.
type InMemoryPipe struct {
	kind    Kind
	modules []Module
}

// NewInMemoryPipe constructs a pipe of the given kind with the supplied
// modules, in order.
func NewInMemoryPipe(kind Kind, modules []Module) *InMemoryPipe {
	return &InMemoryPipe{kind: kind, modules: modules}
}

func (p *InMemoryPipe) Kind() Kind        { return p.kind }
func (p *InMemoryPipe) Modules() []Module { return p.modules }

// SetParam replaces the parameter blob of the module at instance `instance`
// with the given op name, simulating a user dragging a slider. Returns
// ErrNotFound if no such module exists.
func (p *InMemoryPipe) SetParam(opName string, instance int32, blob []byte) error {
	for i := range p.modules {
		m := &p.modules[i]
		if m.OpName == opName && m.Instance == instance {
			m.ParamBlob = blob
			return nil
		}
	}
	return ErrNotFound
}

// SetEnabled toggles a module's enable flag, simulating the user clicking
// the module's power button.
func (p *InMemoryPipe) SetEnabled(opName string, instance int32, enabled bool) error {
	for i := range p.modules {
		m := &p.modules[i]
		if m.OpName == opName && m.Instance == instance {
			m.Enabled = enabled
			return nil
		}
	}
	return ErrNotFound
}

// Sentinel errors for the broader image-IO/collaborator taxonomy mentioned
// in the cache spec's error handling section: these describe failures that
// belong to the pipe/module layer, never to pixelcache itself, which
// reports only ErrAllocFailed (see pkg/errors.go).
var (
	ErrCorrupted = errors.New("pipeline: corrupted source data")
	ErrNotFound  = errors.New("pipeline: module not found")
	ErrCacheFull = errors.New("pipeline: downstream store is full")
)
