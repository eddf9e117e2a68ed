// Package translate converts Russian natural-language requests into query
// descriptors via an external completion service, with a deterministic
// post-processing pass that repairs what language models get wrong.
package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/schema"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "ai"
)

type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Request carries one chat submission. Table is the table active before this
// turn; the translator threads it through explicitly instead of keeping
// session state.
type Request struct {
	Message string
	History []Turn
	Table   schema.Table
}

// Result is a translated turn. Table is the possibly-updated active table and
// always a member of the closed enumeration.
type Result struct {
	Reply      string
	Descriptor descriptor.QueryDescriptor
	Table      schema.Table
	Raw        string
}

type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}

// ErrEmptyConversation is returned when neither the message nor the history
// carries any text. It maps to a client error at the HTTP boundary.
var ErrEmptyConversation = errors.New("translate: empty message and history")

// ServiceError is a non-success status from the completion service.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("translate: completion service returned status %d: %s", e.Status, e.Message)
}

// ParseError means the model produced text no descriptor could be recovered
// from. Raw keeps the full model output for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("translate: model output not parseable as a descriptor: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
