package assets

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestFetch_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(pngMagic)
	}))
	defer server.Close()
	f := NewHTTPFetcher(time.Second)

	data, err := f.Fetch(context.Background(), server.URL+"/logo.png")
	require.NoError(t, err)
	assert.Equal(t, pngMagic, data)

	_, err = f.Fetch(context.Background(), server.URL+"/missing.png")
	assert.Error(t, err)
}

func TestFetch_DataURI(t *testing.T) {
	f := NewHTTPFetcher(time.Second)
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngMagic)

	data, err := f.Fetch(context.Background(), ref)

	require.NoError(t, err)
	assert.Equal(t, pngMagic, data)
}

func TestFetch_Unsupported(t *testing.T) {
	f := NewHTTPFetcher(time.Second)

	for _, ref := range []string{"ftp://host/logo.png", "logo.png", "data:image/png,raw"} {
		_, err := f.Fetch(context.Background(), ref)
		assert.ErrorIs(t, err, ErrUnsupportedURL, ref)
	}
}
