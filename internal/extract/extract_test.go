package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/extract"
)

func TestFromSync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		want  string
		probe string
	}{
		{
			name:  "data is encoded json",
			body:  `{"code":0,"data":"{\"image\":\"https://x/y.png\"}"}`,
			want:  "https://x/y.png",
			probe: "data_fields",
		},
		{
			name:  "data is plain text",
			body:  `{"code":0,"data":"here you go: https://x/plain.jpg thanks"}`,
			want:  "https://x/plain.jpg",
			probe: "data_text",
		},
		{
			name:  "data object field priority",
			body:  `{"code":0,"data":{"url":"https://x/url.png","image":"https://x/image.png"}}`,
			want:  "https://x/image.png",
			probe: "data_fields",
		},
		{
			name:  "non image field skipped",
			body:  `{"code":0,"data":{"image":"not a url","image_url":"https://x/second.webp"}}`,
			want:  "https://x/second.webp",
			probe: "data_fields",
		},
		{
			name:  "signed url keeps query string",
			body:  `{"code":0,"data":"{\"image\":\"https://p9-sign.byteimg.com/tos-cn-i/abc.png~tplv-image.image?rk3s=1&x-expires=1700000000&x-signature=XYZ\"}"}`,
			want:  "https://p9-sign.byteimg.com/tos-cn-i/abc.png~tplv-image.image?rk3s=1&x-expires=1700000000&x-signature=XYZ",
			probe: "data_fields",
		},
		{
			name:  "field with surrounding text yields the match",
			body:  `{"code":0,"data":{"image":"cover: https://x/inline.png"}}`,
			want:  "https://x/inline.png",
			probe: "data_fields",
		},
		{
			name:  "debug url",
			body:  `{"code":0,"data":{"msg":"ok"},"debug_url":"https://coze/debug?execute_id=7&preview=https://x/dbg.png"}`,
			want:  "https://coze/debug?execute_id=7&preview=https://x/dbg.png",
			probe: "debug_url",
		},
		{
			name:  "deep scan",
			body:  `{"code":0,"data":{"nodes":[{"out":{"pic":"https://x/deep.gif"}}]}}`,
			want:  "https://x/deep.gif",
			probe: "deep_scan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, ok := extract.First(gjson.Parse(tt.body), extract.SyncProbes)
			require.True(t, ok)
			assert.Equal(t, tt.want, m.URL)
			assert.Equal(t, tt.probe, m.Probe)

			url, ok := extract.FromSync(gjson.Parse(tt.body))
			assert.True(t, ok)
			assert.Equal(t, tt.want, url)
		})
	}
}

func TestFromSync_NoImage(t *testing.T) {
	t.Parallel()

	_, ok := extract.FromSync(gjson.Parse(`{"code":0,"data":"{\"text\":\"hello\"}","msg":"ok"}`))
	assert.False(t, ok)
}

func TestFromPoll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		want  string
		probe string
	}{
		{
			name:  "output object",
			body:  `{"data":{"status":"SUCCESS","output":{"image_url":"https://x/y.jpg"}}}`,
			want:  "https://x/y.jpg",
			probe: "output",
		},
		{
			name:  "output field keeps query string",
			body:  `{"data":{"status":"SUCCESS","output":{"image_url":"https://x.example/y.jpg?sig=abc"}}}`,
			want:  "https://x.example/y.jpg?sig=abc",
			probe: "output",
		},
		{
			name:  "data field keeps query string",
			body:  `{"data":{"status":"SUCCESS","image":"https://x.example/d.png?x-expires=1&x-signature=s"}}`,
			want:  "https://x.example/d.png?x-expires=1&x-signature=s",
			probe: "data_fields",
		},
		{
			name:  "output string",
			body:  `{"data":{"status":"SUCCESS","output":"{\"output\":\"https://x/out.png\"}"}}`,
			want:  "https://x/out.png",
			probe: "output",
		},
		{
			name:  "output priority differs from data",
			body:  `{"data":{"output":{"image":"https://x/image.png","image_url":"https://x/image_url.png"}}}`,
			want:  "https://x/image_url.png",
			probe: "output",
		},
		{
			name:  "result object subtree",
			body:  `{"data":{"status":"COMPLETED","result":{"items":[{"src":"https://x/res.webp"}]}}}`,
			want:  "https://x/res.webp",
			probe: "result",
		},
		{
			name:  "result string",
			body:  `{"data":{"status":"SUCCESS","result":"done https://x/r.png"}}`,
			want:  "https://x/r.png",
			probe: "result",
		},
		{
			name:  "no data uses root",
			body:  `{"status":"SUCCESS","output":{"url":"https://x/root.png"}}`,
			want:  "https://x/root.png",
			probe: "output",
		},
		{
			name:  "data encoded as json text",
			body:  `{"data":"{\"status\":\"SUCCESS\",\"output\":{\"image\":\"https://x/enc.png\"}}"}`,
			want:  "https://x/enc.png",
			probe: "output",
		},
		{
			name:  "debug url",
			body:  `{"data":{"status":"SUCCESS","debug_url":"https://x/trace.png"}}`,
			want:  "https://x/trace.png",
			probe: "debug_url",
		},
		{
			name:  "deep scan of subject",
			body:  `{"data":{"status":"SUCCESS","nodes":{"n1":{"v":"https://x/n1.jpeg"}}}}`,
			want:  "https://x/n1.jpeg",
			probe: "deep_scan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, ok := extract.First(gjson.Parse(tt.body), extract.PollProbes)
			require.True(t, ok)
			assert.Equal(t, tt.want, m.URL)
			assert.Equal(t, tt.probe, m.Probe)
		})
	}
}

func TestFromPoll_NoImage(t *testing.T) {
	t.Parallel()

	_, ok := extract.FromPoll(gjson.Parse(`{"data":{"status":"SUCCESS","output":{"text":"hi"}}}`))
	assert.False(t, ok)
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	doc := gjson.Parse(`{"s":"x","e":"","n":1,"z":0,"t":true,"f":false,"o":{},"a":[],"nil":null}`)

	for key, want := range map[string]bool{
		"s": true, "e": false, "n": true, "z": false, "t": true,
		"f": false, "o": true, "a": true, "nil": false, "missing": false,
	} {
		assert.Equal(t, want, extract.Truthy(doc.Get(key)), key)
	}
}
