package httpclient_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/httpclient"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	c := httpclient.New(httpclient.Config{})
	assert.Equal(t, httpclient.DefaultTimeout, c.Timeout)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, httpclient.DefaultMaxIdleConnsPerHost, tr.MaxIdleConnsPerHost)
	assert.Equal(t, httpclient.DefaultResponseHeaderTimeout, tr.ResponseHeaderTimeout)
}

func TestNew_Overrides(t *testing.T) {
	t.Parallel()

	c := httpclient.New(httpclient.Config{Timeout: 5 * time.Second, MaxIdleConnsPerHost: 2})
	assert.Equal(t, 5*time.Second, c.Timeout)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 2, tr.MaxIdleConnsPerHost)
}
