package session

import "encoding/json"

// Payload is the structured content exchanged with data and update
// bindings. A Payload returned by Tab.Data is never nil.
type Payload map[string]any

// String returns the string stored at key, or "".
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Meta is a free-form scratch map owned by a Tab or Editor.
type Meta map[string]any

// String returns the string stored at key, or "".
func (m Meta) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Payload returns the payload stored at key, or nil.
func (m Meta) Payload(key string) Payload {
	switch v := m[key].(type) {
	case Payload:
		return v
	case map[string]any:
		return Payload(v)
	default:
		return nil
	}
}

func (m Meta) clone() Meta {
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Config is collaborator-specific configuration forwarded verbatim to the
// rendering collaborator, e.g. {"monaco": {"language": "python"}}.
type Config map[string]any

// ViewRef is an opaque reference to a rendering collaborator.
type ViewRef string

// View references shared by the catalogs and the renderer.
const (
	ViewInfo   ViewRef = "info"
	ViewMonaco ViewRef = "monaco"
)

// DecodePayload parses a JSON object into a Payload.
func DecodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p == nil {
		p = Payload{}
	}
	return p, nil
}

// Str returns a pointer to s, for building a Modification.
func Str(s string) *string {
	return &s
}
