package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Bucket struct {
	Key   string
	Count int
}

// Histogram is an ordered bucket list. It marshals to a JSON object whose key
// order follows the slice, matching what the dashboard consumer expects.
type Histogram []Bucket

func (h Histogram) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, bk := range h {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(bk.Key)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(bk.Count))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (h *Histogram) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("histogram: expected object, got %v", tok)
	}
	var out Histogram
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("histogram: non-string key %v", kt)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return err
		}
		out = append(out, Bucket{Key: key, Count: n})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*h = out
	return nil
}
