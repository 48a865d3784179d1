package component

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentKind identifies a component store. Two kinds of the same Go type
// are distinct stores.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

func NewComponentKind[T any]() ComponentKind[T] {
	var zero T
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1)), name: fmt.Sprintf("%T", zero)}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// Name is the Go type name, for diagnostics.
func (k ComponentKind[T]) Name() string {
	return k.name
}

// NewComponent registers a component kind. Each component file declares
// one as a package variable.
func NewComponent[T any]() ComponentKind[T] {
	return NewComponentKind[T]()
}

// Kind returns k itself, so handles and kinds are interchangeable.
func (k ComponentKind[T]) Kind() ComponentKind[T] {
	return k
}

type ComponentID uint32

var nextComponentID atomic.Uint32
