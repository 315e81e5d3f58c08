package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validImage = append(append([]byte{}, Signature...), []byte("rest of the pages")...)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, &HTTPSource{}, NewSource("https://example.com/cc-cedict.sqlite", nil))
	assert.IsType(t, &HTTPSource{}, NewSource("http://localhost/cc-cedict.sqlite", nil))
	assert.IsType(t, &FileSource{}, NewSource("./cc-cedict.sqlite", nil))
	assert.IsType(t, &FileSource{}, NewSource("/srv/public/cc-cedict.sqlite", nil))
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("primary wins", func(t *testing.T) {
		primary := writeFile(t, "primary.sqlite", validImage)
		loader := NewLoader(primary, filepath.Join(t.TempDir(), "missing.sqlite"), nil)

		data, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, validImage, data)
	})

	t.Run("falls back to secondary", func(t *testing.T) {
		secondary := writeFile(t, "secondary.sqlite", validImage)
		loader := NewLoader(filepath.Join(t.TempDir(), "missing.sqlite"), secondary, nil)

		data, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, validImage, data)
	})

	t.Run("both missing", func(t *testing.T) {
		dir := t.TempDir()
		loader := NewLoader(filepath.Join(dir, "a.sqlite"), filepath.Join(dir, "b.sqlite"), nil)

		_, err := loader.Load(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid signature", func(t *testing.T) {
		primary := writeFile(t, "page.html", []byte("<!DOCTYPE html><html></html>"))
		loader := NewLoader(primary, primary, nil)

		_, err := loader.Load(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSignature)
		assert.Contains(t, err.Error(), "3c21444f43545950")
	})

	t.Run("http primary error falls back", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		secondary := writeFile(t, "secondary.sqlite", validImage)
		loader := NewLoader(srv.URL+"/cc-cedict.sqlite", secondary, srv.Client())

		data, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, validImage, data)
	})
}

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write(validImage)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	t.Run("ok", func(t *testing.T) {
		src := NewSource(srv.URL+"/ok", srv.Client())
		data, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, validImage, data)
	})

	t.Run("non-200 status", func(t *testing.T) {
		src := NewSource(srv.URL+"/down", srv.Client())
		_, err := src.Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 503")
	})
}

func TestFileSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &FileSource{Path: writeFile(t, "x.sqlite", validImage)}
	_, err := src.Fetch(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestValidateSignature(t *testing.T) {
	assert.NoError(t, ValidateSignature(validImage))
	assert.NoError(t, ValidateSignature(Signature))

	err := ValidateSignature(nil)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	err = ValidateSignature([]byte("SQLite format 2\x00"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	err = ValidateSignature([]byte("SQLite"))
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Contains(t, err.Error(), "53514c697465")
}
