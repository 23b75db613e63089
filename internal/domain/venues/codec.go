package venues

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const idKey = "id"

// encodeEntity writes attrs back out with id (and an optional nested field)
// taking precedence over same-named upstream attributes. Members come out in
// key order rather than upstream order; attribute values keep their upstream
// text apart from insignificant whitespace and are not HTML-escaped.
func encodeEntity(id int, attrs Attributes, nestedKey string, nested any) ([]byte, error) {
	out := make(map[string]any, len(attrs)+2)
	for k, v := range attrs {
		out[k] = v
	}
	out[idKey] = id
	if nestedKey != "" {
		out[nestedKey] = nested
	}
	return EncodeJSON(out)
}

// EncodeJSON encodes v without HTML-escaping and without a trailing newline.
// Responses carrying upstream attributes go through it so passed-through
// strings are not rewritten.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func decodeEntity(data []byte) (int, Attributes, error) {
	return decodeEntityWith(data, "", nil)
}

func decodeEntityWith(data []byte, nestedKey string, nested any) (int, Attributes, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, nil, err
	}
	var id int
	if idRaw, ok := raw[idKey]; ok {
		if err := json.Unmarshal(idRaw, &id); err != nil {
			return 0, nil, fmt.Errorf("decode id: %w", err)
		}
		delete(raw, idKey)
	}
	if nestedKey != "" {
		if nestedRaw, ok := raw[nestedKey]; ok {
			if err := json.Unmarshal(nestedRaw, nested); err != nil {
				return 0, nil, fmt.Errorf("decode %s: %w", nestedKey, err)
			}
			delete(raw, nestedKey)
		}
	}
	if len(raw) == 0 {
		return id, nil, nil
	}
	return id, Attributes(raw), nil
}
