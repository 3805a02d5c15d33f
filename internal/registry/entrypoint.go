package registry

import (
	"github.com/google/uuid"
)

// correlationNamespace scopes derived correlation ids to this module.
var correlationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/vk/blocktest"))

// EntryPoint is the synthesized, invocable form of one registration.
type EntryPoint[C any] struct {
	Suite         string
	Name          string
	CorrelationID string
	// ExplicitID is true when the correlation id was supplied at registration.
	ExplicitID bool
	// Index is the position in registration order.
	Index int
	// Static marks tests declared as methods of the suite type.
	Static bool

	block func(C)
}

// Invoke runs the bound block with the given test context.
func (e *EntryPoint[C]) Invoke(c C) {
	e.block(c)
}

// DefaultCorrelationID derives a stable id from the suite and test names.
func DefaultCorrelationID(suite, name string) string {
	return uuid.NewSHA1(correlationNamespace, []byte(suite+"."+name)).String()
}
