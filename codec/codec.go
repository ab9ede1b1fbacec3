// Package codec encodes the small self-describing documents stored next to
// records, such as layout descriptors.
//
// The record bytes themselves never pass through a Codec. Descriptors store
// the codec name so they can be decoded with the codec that wrote them.
package codec

// Codec encodes/decodes descriptor documents.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	// Name is stored in descriptors and must never change.
	Name() string
}

// Default is the codec used for newly written descriptors.
var Default Codec = GoJSON{}

// ByName returns the built-in codec a descriptor names.
func ByName(name string) (Codec, bool) {
	switch name {
	case JSON{}.Name():
		return JSON{}, true
	case GoJSON{}.Name():
		return GoJSON{}, true
	default:
		return nil, false
	}
}
