package domain

import (
	"encoding/json"
	"fmt"
)

type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyRaw
	BodyJSON
)

// Body is the request payload of a check. A JSON body is encoded once when it
// is built so every attempt sends the same bytes.
type Body struct {
	kind    BodyKind
	value   any
	payload []byte
}

func RawBody(b []byte) Body {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Body{kind: BodyRaw, payload: cp}
}

// JSONBody encodes v with encoding/json, which sorts map keys.
func JSONBody(v any) (Body, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Body{}, fmt.Errorf("encode json body: %w", err)
	}
	return Body{kind: BodyJSON, value: v, payload: b}, nil
}

func (b Body) Kind() BodyKind { return b.kind }
func (b Body) IsSet() bool    { return b.kind != BodyNone }

// Value returns the structured value of a JSON body, nil otherwise.
func (b Body) Value() any { return b.value }

// Bytes returns a copy of the encoded payload.
func (b Body) Bytes() []byte {
	if b.payload == nil {
		return nil
	}
	cp := make([]byte, len(b.payload))
	copy(cp, b.payload)
	return cp
}

// CheckSpec describes one HTTP probe. Specs are built by the checks loader and
// not modified afterwards.
type CheckSpec struct {
	Name           string
	Method         string
	Path           string
	Headers        map[string]string
	Body           Body
	ExpectedStatus []int
}

// Expects reports whether status is in the expected list. A spec without an
// expected list accepts any status here; the generic range rule still applies.
func (c CheckSpec) Expects(status int) bool {
	if len(c.ExpectedStatus) == 0 {
		return true
	}
	for _, s := range c.ExpectedStatus {
		if s == status {
			return true
		}
	}
	return false
}
