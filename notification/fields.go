package notification

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// segmentPattern matches one key=value segment of a form-encoded body.
// The value is everything after the first '=', newlines included.
var segmentPattern = regexp.MustCompile(`(?s)^([A-Za-z0-9_.]+)=(.*)$`)

/* Fields holds the decoded key/value pairs of a notification body
 * Keys are unique (last assignment wins) and keep the position of
 * their first appearance so diagnostics print in payload order
 */
type Fields struct {
	keys   []string
	values map[string]string
}

// Parse decodes a raw form-encoded payload. It returns the fields and the
// payload as a string. Segments that do not look like key=value are skipped.
func Parse(raw []byte) (Fields, string) {
	return ParseString(string(raw))
}

// ParseString is Parse for payloads that are already strings
func ParseString(raw string) (Fields, string) {
	var f Fields
	for _, segment := range strings.Split(raw, "&") {
		m := segmentPattern.FindStringSubmatch(segment)
		if m == nil {
			continue
		}
		f.set(m[1], unescape(m[2]))
	}
	return f, raw
}

func (f *Fields) set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value for key, or "" when it is absent
func (f Fields) Get(key string) string {
	return f.values[key]
}

// Lookup returns the value for key and whether it was present
func (f Fields) Lookup(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Float returns the value for key as a float64. Missing or non-numeric
// values yield 0, mirroring how gateways treat an absent amount.
func (f Fields) Float(key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(f.values[key]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Len returns the number of distinct keys
func (f Fields) Len() int {
	return len(f.keys)
}

// Keys returns the keys in first-seen order
func (f Fields) Keys() []string {
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Map returns a copy of the fields as a plain map
func (f Fields) Map() map[string]string {
	m := make(map[string]string, len(f.values))
	for k, v := range f.values {
		m[k] = v
	}
	return m
}
