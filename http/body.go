package http

import (
	"encoding/json"
	"fmt"
)

// Body is an immutable response payload together with its content descriptor.
type Body struct {
	descriptor ContentDescriptor
	payload    string
}

// NoBody is the canonical empty body. It contributes neither headers nor
// entity content to a serialized response.
var NoBody = &Body{}

// TextBody wraps text as a text/plain body.
func TextBody(text string) *Body {
	return NewBody(ContentTypeTextPlain, text)
}

func NewBody(contentType ContentType, payload string) *Body {
	return &Body{
		descriptor: describe(contentType, payload),
		payload:    payload,
	}
}

// BytesBody copies payload into a new body.
func BytesBody(contentType ContentType, payload []byte) *Body {
	return NewBody(contentType, string(payload))
}

func JSONBody(v any) (*Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("http: encoding json body: %w", err)
	}
	return BytesBody(ContentTypeJSON, data), nil
}

// IsEmpty is true only for NoBody. A zero-length body built with one of the
// constructors is not empty.
func (b *Body) IsEmpty() bool {
	return b == nil || b == NoBody
}

func (b *Body) Descriptor() ContentDescriptor {
	return b.descriptor
}

func (b *Body) ContentType() ContentType {
	return b.descriptor.Type
}

func (b *Body) ContentLength() int {
	return b.descriptor.Length
}

func (b *Body) String() string {
	if b.IsEmpty() {
		return ""
	}
	return b.payload
}

func (b *Body) Equal(other *Body) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return b.IsEmpty() == other.IsEmpty()
	}
	return b.descriptor == other.descriptor && b.payload == other.payload
}
