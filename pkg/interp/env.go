package interp

import (
	"slices"

	"github.com/agenthands/minitri/pkg/core/value"
)

// Binding is one named entry of a scope frame.
type Binding struct {
	Type  string // declared type tag, e.g. "Integer"
	Value value.Value
	Const bool
}

// Frame is one layer of the environment, created by a let block or a
// function invocation.
type Frame struct {
	bindings map[string]*Binding
}

func newFrame() *Frame {
	return &Frame{bindings: make(map[string]*Binding)}
}

// Env is a stack of frames. Lookups search from the innermost frame out and
// act on the first match, so inner declarations shadow outer ones.
type Env struct {
	frames []*Frame
}

// Push opens a new innermost frame.
func (e *Env) Push() *Frame {
	f := newFrame()
	e.frames = append(e.frames, f)
	return f
}

// Pop discards the innermost frame.
func (e *Env) Pop() {
	if len(e.frames) == 0 {
		panic("interp: pop of empty environment")
	}
	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]
}

// Depth is the number of active frames.
func (e *Env) Depth() int {
	return len(e.frames)
}

// Define binds name in the innermost frame.
func (e *Env) Define(name string, b Binding) error {
	top := e.frames[len(e.frames)-1]
	if _, exists := top.bindings[name]; exists {
		return ErrRedeclared
	}
	top.bindings[name] = &b
	return nil
}

// Lookup finds the innermost binding of name.
func (e *Env) Lookup(name string) (*Binding, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if b, ok := e.frames[i].bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Assign overwrites the value of the innermost variable called name,
// keeping its type tag. Nothing is modified on error.
func (e *Env) Assign(name string, v value.Value) error {
	b, ok := e.Lookup(name)
	if !ok {
		return ErrUnbound
	}
	if b.Const {
		return ErrAssignToConst
	}
	if b.Value.Type == value.TypeFunc {
		return ErrNotAssignable
	}
	b.Value = v
	return nil
}

// snapshot copies the frame stack for a closure. Frames are shared, so the
// closure observes later writes to variables it can see.
func (e *Env) snapshot() []*Frame {
	return slices.Clone(e.frames)
}

// swap installs frames as the active stack and returns the previous one.
func (e *Env) swap(frames []*Frame) []*Frame {
	prev := e.frames
	e.frames = frames
	return prev
}

func (e *Env) reset() {
	clear(e.frames)
	e.frames = e.frames[:0]
}
