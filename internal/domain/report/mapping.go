package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Entry is one key of a backend count object.
type Entry struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Mapping is a JSON object of counts kept in document order. A repeated key
// keeps its first position and its last value. Values that are neither
// numbers nor numeric strings count as zero, and fractions are truncated.
type Mapping []Entry

func (m *Mapping) UnmarshalJSON(data []byte) error {
	out := Mapping{}
	index := make(map[string]int)
	err := decodeObject(data, func(key string, raw json.RawMessage) {
		n := coerce(raw)
		if i, ok := index[key]; ok {
			out[i].Count = n
			return
		}
		index[key] = len(out)
		out = append(out, Entry{Key: key, Count: n})
	})
	if err != nil {
		return err
	}
	*m = out
	return nil
}

// Get returns the count for key, or 0.
func (m Mapping) Get(key string) int64 {
	for _, e := range m {
		if e.Key == key {
			return e.Count
		}
	}
	return 0
}

func (m Mapping) Total() int64 {
	var n int64
	for _, e := range m {
		n += e.Count
	}
	return n
}

// Bucket is one period of the appointment summary.
type Bucket struct {
	Key    string
	Counts Mapping
}

// Buckets decodes {"bucket": {"STATUS": count}} in document order. A bucket
// whose value is not an object has no counts.
type Buckets []Bucket

func (b *Buckets) UnmarshalJSON(data []byte) error {
	out := Buckets{}
	index := make(map[string]int)
	err := decodeObject(data, func(key string, raw json.RawMessage) {
		var counts Mapping
		if err := json.Unmarshal(raw, &counts); err != nil || counts == nil {
			counts = Mapping{}
		}
		if i, ok := index[key]; ok {
			out[i].Counts = counts
			return
		}
		index[key] = len(out)
		out = append(out, Bucket{Key: key, Counts: counts})
	})
	if err != nil {
		return err
	}
	*b = out
	return nil
}

// decodeObject walks the members of a JSON object in order. null and
// non-object values have no members.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage)) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		fn(key, raw)
	}
	_, err := dec.Token()
	return err
}

func coerce(raw json.RawMessage) int64 {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0
	}
	switch x := v.(type) {
	case json.Number:
		return parseCount(x.String())
	case string:
		return parseCount(strings.TrimSpace(x))
	case bool:
		if x {
			return 1
		}
	}
	return 0
}

func parseCount(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}
