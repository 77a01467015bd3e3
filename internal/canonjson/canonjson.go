// Package canonjson implements the deterministic JSON serialization the
// spec requires for request/response hashing (see §4.4): object keys sorted
// lexicographically, scalars rendered with the standard library's JSON
// encoding, and no added whitespace. Two semantically equal values with
// differently ordered map keys always produce byte-identical output.
package canonjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Marshal returns the canonical JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustMarshal is Marshal but panics on error; used for values already known
// to be JSON-serializable (e.g. request descriptors built by this repo).
func MustMarshal(v any) []byte {
	b, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// ByteLen returns the UTF-8 byte length of v's canonical encoding, or 0 if
// v cannot be marshaled.
func ByteLen(v any) int {
	b, err := Marshal(v)
	if err != nil {
		return 0
	}
	return len(b)
}

// RuneLen returns the character count of v's canonical encoding, or 0 if v
// cannot be marshaled.
func RuneLen(v any) int {
	b, err := Marshal(v)
	if err != nil {
		return 0
	}
	n := 0
	for range string(b) {
		n++
	}
	return n
}

// encode writes the canonical form of v to buf. Values are first round
// tripped through encoding/json so that custom MarshalJSON implementations,
// struct tags, and numeric formatting all behave exactly as the standard
// library defines them; only map/object key ordering is reimposed.
func encode(buf *bytes.Buffer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("canonjson: marshaling value: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("canonjson: decoding value: %w", err)
	}
	return encodeValue(buf, generic)
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case map[string]any:
		return encodeObject(buf, val)
	case []any:
		return encodeArray(buf, val)
	default:
		// bool, float64, string: the standard encoder already produces the
		// normal JSON rendering for these.
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("canonjson: marshaling scalar: %w", err)
		}
		buf.Write(b)
		return nil
	}
}

func encodeObject(buf *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return fmt.Errorf("canonjson: marshaling key %q: %w", k, err)
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		if err := encodeValue(buf, m[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeArray(buf *bytes.Buffer, items []any) error {
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(buf, item); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}
