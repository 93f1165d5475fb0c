// Package property implements the tagged-union Property value and the
// name-keyed PropertyMap used by Atom, Residue, and Frame (spec section
// 3.3). An untyped map[string]interface{} metadata bag is the obvious
// alternative; this package narrows that idea to the four variants the
// spec requires so that reading a Property as the wrong type fails with a
// typed trajerr.Error instead of a runtime type-assertion panic.
package property

import (
	"fmt"

	"github.com/chemtraj/trajlib/geometry"
	"github.com/chemtraj/trajlib/trajerr"
)

// Kind identifies which variant a Property holds.
type Kind int

const (
	KindBool Kind = iota
	KindDouble
	KindString
	KindVector3D
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindVector3D:
		return "Vector3D"
	default:
		return "Unknown"
	}
}

// Property is a tagged union over exactly four variants: Bool, Double,
// String, Vector3D.
type Property struct {
	kind    Kind
	boolV   bool
	doubleV float64
	stringV string
	vecV    geometry.Vector3D
}

// NewBool builds a Bool property.
func NewBool(v bool) Property { return Property{kind: KindBool, boolV: v} }

// NewDouble builds a Double property.
func NewDouble(v float64) Property { return Property{kind: KindDouble, doubleV: v} }

// NewString builds a String property.
func NewString(v string) Property { return Property{kind: KindString, stringV: v} }

// NewVector3D builds a Vector3D property.
func NewVector3D(v geometry.Vector3D) Property { return Property{kind: KindVector3D, vecV: v} }

// NewInt widens any signed integer to a Double property, per spec section
// 3.3 ("Numeric integer constructors widen to Double").
func NewInt(v int64) Property { return NewDouble(float64(v)) }

// NewUint widens any unsigned integer to a Double property.
func NewUint(v uint64) Property { return NewDouble(float64(v)) }

// Kind reports which variant this Property holds.
func (p Property) Kind() Kind { return p.kind }

// Bool returns the Bool variant, or a PropertyError if p does not hold one.
func (p Property) Bool() (bool, error) {
	if p.kind != KindBool {
		return false, wrongKind("Property.Bool", KindBool, p.kind)
	}
	return p.boolV, nil
}

// Double returns the Double variant, or a PropertyError if p does not hold one.
func (p Property) Double() (float64, error) {
	if p.kind != KindDouble {
		return 0, wrongKind("Property.Double", KindDouble, p.kind)
	}
	return p.doubleV, nil
}

// String returns the String variant, or a PropertyError if p does not hold one.
func (p Property) String() (string, error) {
	if p.kind != KindString {
		return "", wrongKind("Property.String", KindString, p.kind)
	}
	return p.stringV, nil
}

// Vector3D returns the Vector3D variant, or a PropertyError if p does not
// hold one.
func (p Property) Vector3D() (geometry.Vector3D, error) {
	if p.kind != KindVector3D {
		return geometry.Vector3D{}, wrongKind("Property.Vector3D", KindVector3D, p.kind)
	}
	return p.vecV, nil
}

func wrongKind(op string, want, got Kind) error {
	return trajerr.PropertyError(op, fmt.Errorf("expected %s property, got %s", want, got))
}

// Map is a name -> Property mapping.
type Map struct {
	entries map[string]Property
}

// NewMap builds an empty PropertyMap.
func NewMap() *Map { return &Map{entries: make(map[string]Property)} }

// Set inserts or replaces the property named name.
func (m *Map) Set(name string, p Property) {
	if m.entries == nil {
		m.entries = make(map[string]Property)
	}
	m.entries[name] = p
}

// Get returns the property named name, if present.
func (m *Map) Get(name string) (Property, bool) {
	p, ok := m.entries[name]
	return p, ok
}

// Delete removes the property named name, if present.
func (m *Map) Delete(name string) {
	delete(m.entries, name)
}

// Names returns every key currently stored, in unspecified order.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.entries))
	for k := range m.entries {
		names = append(names, k)
	}
	return names
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Clone returns a shallow copy (Property values are themselves immutable
// value types, so a shallow copy is a full copy).
func (m *Map) Clone() *Map {
	out := NewMap()
	for k, v := range m.entries {
		out.entries[k] = v
	}
	return out
}
