package urlscan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/urlscan"
)

func TestFindInString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{name: "plain url", input: "https://x/y.png", want: "https://x/y.png", found: true},
		{name: "embedded in text", input: `see "https://cdn.example.com/a/b.JPG" here`, want: "https://cdn.example.com/a/b.JPG", found: true},
		{name: "first of two", input: "http://a/1.gif and http://a/2.webp", want: "http://a/1.gif", found: true},
		{name: "query string kept out", input: "https://x/y.jpeg?sig=1", want: "https://x/y.jpeg", found: true},
		{name: "bmp via pattern", input: "https://x/y.bmp", want: "https://x/y.bmp", found: true},
		{name: "loose whole string", input: "https://x/a b.png", want: "https://x/a b.png", found: true},
		{name: "loose is case sensitive", input: "https://x/a b.PNG", found: false},
		{name: "loose ignores bmp", input: "https://x/a b.bmp", found: false},
		{name: "no scheme", input: "ftp://x/y.png", found: false},
		{name: "not an image", input: "https://x/y.html", found: false},
		{name: "empty", input: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := urlscan.FindInString(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindInJSON_DocumentOrder(t *testing.T) {
	t.Parallel()

	doc := gjson.Parse(`{
		"z": {"note": "nothing"},
		"b": ["text", {"deep": "https://x/first.png"}],
		"a": "https://x/second.png"
	}`)

	got, ok := urlscan.FindInJSON(doc)
	assert.True(t, ok)
	assert.Equal(t, "https://x/first.png", got)
}

func TestFindInJSON_NoMatch(t *testing.T) {
	t.Parallel()

	_, ok := urlscan.FindInJSON(gjson.Parse(`{"code":0,"n":12,"ok":true,"list":[null,"x"]}`))
	assert.False(t, ok)
}

func TestFind_GoValues(t *testing.T) {
	t.Parallel()

	v := map[string]any{
		"b": []any{1, "https://x/b.png"},
		"a": map[string]any{"url": "https://x/a.jpg"},
	}

	got, ok := urlscan.Find(v)
	assert.True(t, ok)
	assert.Equal(t, "https://x/a.jpg", got, "keys are walked in sorted order")
}

func TestFind_Struct(t *testing.T) {
	t.Parallel()

	type output struct {
		Name  string
		Image *string
	}
	img := "https://x/struct.webp"

	got, ok := urlscan.Find(output{Name: "n", Image: &img})
	assert.True(t, ok)
	assert.Equal(t, img, got)
}

func TestFind_GJSONInside(t *testing.T) {
	t.Parallel()

	got, ok := urlscan.Find([]any{gjson.Parse(`{"u":"https://x/g.gif"}`)})
	assert.True(t, ok)
	assert.Equal(t, "https://x/g.gif", got)
}

func TestFind_CyclicValuesTerminate(t *testing.T) {
	t.Parallel()

	self := map[string]any{}
	self["self"] = self
	self["list"] = []any{self}

	_, ok := urlscan.Find(self)
	assert.False(t, ok)

	seq := make([]any, 2)
	seq[0] = seq
	seq[1] = "https://x/after-cycle.png"

	got, ok := urlscan.Find(seq)
	assert.True(t, ok)
	assert.Equal(t, "https://x/after-cycle.png", got)
}

func TestFind_Nil(t *testing.T) {
	t.Parallel()

	_, ok := urlscan.Find(nil)
	assert.False(t, ok)
}
