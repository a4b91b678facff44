// Package urlscan finds the first plausible image URL in a string or in an
// arbitrarily nested value.
package urlscan

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// imagePattern matches an http(s) URL that ends in a raster image extension.
var imagePattern = regexp.MustCompile(`(?i)https?://[^\s"'<>]+\.(?:jpg|jpeg|png|gif|webp|bmp)`)

// looseMarkers are the substrings accepted by the whole-string fallback. The
// list is narrower than imagePattern and case sensitive.
var looseMarkers = []string{".jpg", ".png", ".jpeg", ".gif", ".webp"}

// FindInString returns the first image URL inside s. When the pattern does not
// match, s itself is accepted if it starts with "http" and mentions an image
// extension anywhere.
func FindInString(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if m := imagePattern.FindString(s); m != "" {
		return m, true
	}
	if strings.HasPrefix(s, "http") {
		for _, marker := range looseMarkers {
			if strings.Contains(s, marker) {
				return s, true
			}
		}
	}
	return "", false
}

// FindInJSON walks a parsed JSON document depth first in document order and
// returns the first string value that FindInString accepts. JSON text is a
// tree, so no visited set is needed here.
func FindInJSON(r gjson.Result) (string, bool) {
	switch {
	case r.Type == gjson.String:
		return FindInString(r.Str)
	case r.IsObject(), r.IsArray():
		var (
			found string
			ok    bool
		)
		r.ForEach(func(_, value gjson.Result) bool {
			found, ok = FindInJSON(value)
			return !ok
		})
		return found, ok
	default:
		return "", false
	}
}

// Find scans an arbitrary Go value. Strings use FindInString, gjson results
// use FindInJSON, and maps, slices, arrays, structs and pointers are walked
// depth first. Map keys are visited in sorted order so results are
// reproducible. Containers already seen are not re-entered, so cyclic values
// terminate.
func Find(v any) (string, bool) {
	w := &walker{visited: make(map[container]struct{})}
	return w.walk(reflect.ValueOf(v))
}

type container struct {
	kind reflect.Kind
	ptr  uintptr
	len  int
}

type walker struct {
	visited map[container]struct{}
}

var gjsonResultType = reflect.TypeOf(gjson.Result{})

// enter records a container and reports whether it was new.
func (w *walker) enter(c container) bool {
	if _, seen := w.visited[c]; seen {
		return false
	}
	w.visited[c] = struct{}{}
	return true
}

func (w *walker) walk(v reflect.Value) (string, bool) {
	if !v.IsValid() {
		return "", false
	}

	if v.Type() == gjsonResultType {
		r, _ := v.Interface().(gjson.Result)
		return FindInJSON(r)
	}

	switch v.Kind() {
	case reflect.String:
		return FindInString(v.String())
	case reflect.Interface:
		if v.IsNil() {
			return "", false
		}
		return w.walk(v.Elem())
	case reflect.Pointer:
		if v.IsNil() || !w.enter(container{kind: reflect.Pointer, ptr: v.Pointer()}) {
			return "", false
		}
		return w.walk(v.Elem())
	case reflect.Map:
		if v.IsNil() || !w.enter(container{kind: reflect.Map, ptr: v.Pointer()}) {
			return "", false
		}
		for _, key := range sortedKeys(v) {
			if url, ok := w.walk(v.MapIndex(key)); ok {
				return url, true
			}
		}
	case reflect.Slice:
		if v.IsNil() || !w.enter(container{kind: reflect.Slice, ptr: v.Pointer(), len: v.Len()}) {
			return "", false
		}
		return w.walkSeq(v)
	case reflect.Array:
		return w.walkSeq(v)
	case reflect.Struct:
		t := v.Type()
		for i := range v.NumField() {
			if !t.Field(i).IsExported() {
				continue
			}
			if url, ok := w.walk(v.Field(i)); ok {
				return url, true
			}
		}
	}

	return "", false
}

func (w *walker) walkSeq(v reflect.Value) (string, bool) {
	for i := range v.Len() {
		if url, ok := w.walk(v.Index(i)); ok {
			return url, true
		}
	}
	return "", false
}

func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	sort.SliceStable(keys, func(i, j int) bool {
		return keyString(keys[i]) < keyString(keys[j])
	})
	return keys
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
