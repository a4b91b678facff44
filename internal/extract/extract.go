package extract

import (
	"github.com/tidwall/gjson"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/urlscan"
)

// Field names checked on data objects and on output/result objects.
var (
	imageFields  = []string{"image", "image_url", "url"}
	outputFields = []string{"image_url", "image", "url"}
)

// SyncProbes is the probe order for an inline (synchronous) run response.
var SyncProbes = []Probe{
	{Name: "data_text", Fn: rawDataText},
	{Name: "data_fields", Fn: func(doc gjson.Result) (string, bool) {
		data, ok := decodeData(doc)
		if !ok {
			return "", false
		}
		return fieldsOf(data, imageFields...)
	}},
	{Name: "debug_url", Fn: debugURL},
	{Name: "deep_scan", Fn: urlscan.FindInJSON},
}

// PollProbes is the probe order for a status query response. Each probe
// looks at the poll subject: the data field (decoded when it is JSON text)
// when present, otherwise the whole document.
var PollProbes = []Probe{
	{Name: "data_text", Fn: rawDataText},
	{Name: "data_fields", Fn: onSubject(func(s gjson.Result) (string, bool) {
		return fieldsOf(s, imageFields...)
	})},
	{Name: "output", Fn: onSubject(func(s gjson.Result) (string, bool) {
		return scanStringOrFields(s.Get("output"), outputFields...)
	})},
	{Name: "result", Fn: onSubject(func(s gjson.Result) (string, bool) {
		result := s.Get("result")
		if !Truthy(result) {
			return "", false
		}
		if url, ok := scanStringOrFields(result, outputFields...); ok {
			return url, true
		}
		return urlscan.FindInJSON(result)
	})},
	{Name: "debug_url", Fn: func(doc gjson.Result) (string, bool) {
		if url, ok := debugURL(PollSubject(doc)); ok {
			return url, true
		}
		return debugURL(doc)
	}},
	{Name: "deep_scan", Fn: func(doc gjson.Result) (string, bool) {
		if url, ok := urlscan.FindInJSON(PollSubject(doc)); ok {
			return url, true
		}
		return urlscan.FindInJSON(doc)
	}},
}

// FromSync extracts the image URL from a synchronous run response.
func FromSync(doc gjson.Result) (string, bool) {
	m, ok := First(doc, SyncProbes)
	return m.URL, ok
}

// FromPoll extracts the image URL from a successful status query response.
func FromPoll(doc gjson.Result) (string, bool) {
	m, ok := First(doc, PollProbes)
	return m.URL, ok
}

// PollSubject returns data when it is present, decoded if it is JSON text,
// or the whole document otherwise.
func PollSubject(doc gjson.Result) gjson.Result {
	data := doc.Get("data")
	if !Truthy(data) {
		return doc
	}
	decoded, ok := decodeData(doc)
	if !ok {
		return doc
	}
	return decoded
}

func onSubject(fn func(gjson.Result) (string, bool)) func(gjson.Result) (string, bool) {
	return func(doc gjson.Result) (string, bool) {
		return fn(PollSubject(doc))
	}
}

// rawDataText scans a data field holding plain text that is not JSON.
func rawDataText(doc gjson.Result) (string, bool) {
	data, ok := decodeData(doc)
	if ok || data.Type != gjson.String {
		return "", false
	}
	return urlscan.FindInString(data.Str)
}

func debugURL(v gjson.Result) (string, bool) {
	d := v.Get("debug_url")
	if d.Type != gjson.String {
		return "", false
	}
	return urlscan.FindInString(d.Str)
}
