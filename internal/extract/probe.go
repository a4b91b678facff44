// Package extract locates the image URL in workflow responses.
//
// Responses have no fixed schema, so extraction is an ordered list of probes
// over the parsed document. The first probe that yields a URL wins; when none
// do, the caller reports a missing image.
package extract

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/urlscan"
)

// Probe inspects one known response shape.
type Probe struct {
	Name string
	Fn   func(doc gjson.Result) (string, bool)
}

// Match is the outcome of a successful probe.
type Match struct {
	URL   string
	Probe string
}

// First runs probes in order and returns the first hit.
func First(doc gjson.Result, probes []Probe) (Match, bool) {
	for _, p := range probes {
		if url, ok := p.Fn(doc); ok {
			return Match{URL: url, Probe: p.Name}, true
		}
	}
	return Match{}, false
}

// fieldsOf checks the named fields of obj in order. A string field must
// pass the URL scanner; when the field is itself a URL it is returned whole,
// so signed query strings survive.
func fieldsOf(obj gjson.Result, names ...string) (string, bool) {
	if !obj.IsObject() {
		return "", false
	}
	for _, name := range names {
		v := obj.Get(gjson.Escape(name))
		if v.Type != gjson.String {
			continue
		}
		found, ok := urlscan.FindInString(v.Str)
		if !ok {
			continue
		}
		if value := strings.TrimSpace(v.Str); isHTTPURL(value) {
			return value, true
		}
		return found, true
	}
	return "", false
}

func isHTTPURL(s string) bool {
	lower := strings.ToLower(s)
	return (strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")) &&
		!strings.ContainsAny(s, " \t\n")
}

// scanStringOrFields scans a string value, or checks the named fields of an object.
func scanStringOrFields(v gjson.Result, names ...string) (string, bool) {
	if v.Type == gjson.String {
		return urlscan.FindInString(v.Str)
	}
	return fieldsOf(v, names...)
}

// decodeData returns the data field, parsed when it holds JSON text. The
// second result is false when data is a string that is not JSON.
func decodeData(doc gjson.Result) (gjson.Result, bool) {
	data := doc.Get("data")
	if data.Type != gjson.String {
		return data, true
	}
	if gjson.Valid(data.Str) {
		return gjson.Parse(data.Str), true
	}
	return data, false
}

// Truthy reports whether v would count as present in a loosely typed payload:
// non-empty strings, non-zero numbers, true, and any object or array.
func Truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.True:
		return true
	case gjson.JSON:
		return true
	default:
		return false
	}
}
