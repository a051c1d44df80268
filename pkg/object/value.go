package object

import (
	"fmt"
	"strings"
)

// Heap values tracked by the collector
//
// The interpreter hands the collector one of a small fixed set of composite
// shapes: a string-keyed map, an ordered sequence, or a closure. Scalars
// (ints, symbols, strings) are never heap-tracked; they live inline in their
// containers. Every composite shape can structurally participate in a
// reference cycle, so every Value is a potential cycle member.
//
// References between tracked objects are NOT derived from the payload: the
// interpreter reports outgoing edges explicitly through the collector's
// update-references call. A Value is opaque cargo plus a size estimate.

// Kind represents the shape of a Value
type Kind int

const (
	KindMap Kind = iota
	KindSeq
	KindClosure
)

// String returns the kind name used in diagnostics and graph dumps
func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindSeq:
		return "seq"
	case KindClosure:
		return "closure"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is the closed tagged union for all tracked heap values
type Value struct {
	Kind Kind

	// KindMap
	Fields map[string]interface{}

	// KindSeq
	Elems []interface{}

	// KindClosure
	Name   string
	Params []string
	Body   string
	Env    uint64 // identity of the captured environment object, 0 if none
}

// NewMap creates a map value
func NewMap(fields map[string]interface{}) *Value {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	return &Value{Kind: KindMap, Fields: fields}
}

// NewSeq creates a sequence value
func NewSeq(elems ...interface{}) *Value {
	return &Value{Kind: KindSeq, Elems: elems}
}

// NewClosure creates a closure value capturing the environment object env
func NewClosure(name string, params []string, body string, env uint64) *Value {
	return &Value{
		Kind:   KindClosure,
		Name:   name,
		Params: params,
		Body:   body,
		Env:    env,
	}
}

// IsMap returns true for map values
func IsMap(v *Value) bool { return v != nil && v.Kind == KindMap }

// IsSeq returns true for sequence values
func IsSeq(v *Value) bool { return v != nil && v.Kind == KindSeq }

// IsClosure returns true for closure values
func IsClosure(v *Value) bool { return v != nil && v.Kind == KindClosure }

// Size estimation constants. These are deliberate approximations of the
// in-memory footprint; the collector needs a consistent estimate for its
// byte accounting, not an exact measurement.
const (
	baseOverhead   = 64  // header + bookkeeping for any tracked value
	mapEntrySize   = 48  // bucket slot + boxed element
	seqElemSize    = 16  // slice slot + boxed element
	closurePadding = 128 // captured-state estimate for any closure
	paramSize      = 24  // per-parameter slot in a closure
)

// EstimateSize returns the approximate byte footprint of v. The estimate is
// stable for a given shape: re-estimating an unmodified value always yields
// the same number, which the collector relies on when it subtracts the size
// it recorded at allocation.
func (v *Value) EstimateSize() uint64 {
	if v == nil {
		return 0
	}
	size := uint64(baseOverhead)
	switch v.Kind {
	case KindMap:
		for k := range v.Fields {
			size += mapEntrySize + uint64(len(k))
		}
	case KindSeq:
		size += uint64(len(v.Elems)) * seqElemSize
	case KindClosure:
		size += closurePadding
		size += uint64(len(v.Params)) * paramSize
		size += uint64(len(v.Name)) + uint64(len(v.Body))
	}
	return size
}

// String renders a compact human-readable form for diagnostics
func (v *Value) String() string {
	if v == nil {
		return "nil"
	}
	switch v.Kind {
	case KindMap:
		return fmt.Sprintf("map[%d fields]", len(v.Fields))
	case KindSeq:
		return fmt.Sprintf("seq[%d elems]", len(v.Elems))
	case KindClosure:
		name := v.Name
		if name == "" {
			name = "<anon>"
		}
		return fmt.Sprintf("closure %s(%s)", name, strings.Join(v.Params, " "))
	}
	return "unknown"
}
