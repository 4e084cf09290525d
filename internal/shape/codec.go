package shape

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes the ordered shape list as a flat JSON array. The encoding
// is stable: Marshal(Unmarshal(b)) == b for any b produced by Marshal.
func Marshal(list []Shape) ([]byte, error) {
	if list == nil {
		list = []Shape{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("marshal shapes: %w", err)
	}
	return b, nil
}

// MarshalIndent is Marshal with one record per line for human editing.
func MarshalIndent(list []Shape) ([]byte, error) {
	b, err := Marshal(list)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return nil, fmt.Errorf("indent shapes: %w", err)
	}
	return out.Bytes(), nil
}

// Unmarshal decodes a JSON array of shape records and validates every
// record. Records written without a scale get unit scale.
func Unmarshal(data []byte) ([]Shape, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Shape{}, nil
	}
	var list []Shape
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("unmarshal shapes: %w", err)
	}
	seen := make(map[string]struct{}, len(list))
	for i := range list {
		s := &list[i]
		if s.ScaleX == 0 && s.ScaleY == 0 {
			s.ScaleX, s.ScaleY = 1, 1
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("shape %d: %w: %s", i, ErrDuplicateID, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	if list == nil {
		list = []Shape{}
	}
	return list, nil
}

// Encode is Marshal returning a string, the form handed to persistence.
func Encode(list []Shape) (string, error) {
	b, err := Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode is Unmarshal for a string.
func Decode(s string) ([]Shape, error) {
	return Unmarshal([]byte(s))
}
