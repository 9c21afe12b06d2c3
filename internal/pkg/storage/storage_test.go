package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDriver(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		for _, driver := range []string{"", "none", " NONE "} {
			st, err := NewFromDriver(context.Background(), driver, FactoryOptions{})

			require.NoError(t, err)
			assert.Nil(t, st)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewFromDriver(context.Background(), "ftp", FactoryOptions{})

		assert.ErrorIs(t, err, ErrUnknownDriver)
	})

	t.Run("minio", func(t *testing.T) {
		st, err := NewFromDriver(context.Background(), "minio", FactoryOptions{
			MinIO: MinIOOptions{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Region: "us-east-1"},
		})

		require.NoError(t, err)
		assert.IsType(t, &MinIOAdapter{}, st)
	})
}

func newFakeS3(t *testing.T) *S3Adapter {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/templates/newsletter/welcome.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("ETag", `"abc"`)
		w.Header().Set("Last-Modified", "Wed, 14 Oct 2026 10:00:00 GMT")
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, "<p>Welcome {{.Name}}</p>")
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
				`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	st, err := NewS3(context.Background(), S3Options{
		Region:       "us-east-1",
		Endpoint:     srv.URL,
		AccessKey:    "test",
		SecretKey:    "test",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func TestS3Adapter_GetObject(t *testing.T) {
	st := newFakeS3(t)

	t.Run("found", func(t *testing.T) {
		rc, info, err := st.GetObject(context.Background(), "templates", "newsletter/welcome.html")
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "<p>Welcome {{.Name}}</p>", string(body))
		assert.Equal(t, "text/html", info.ContentType)
		assert.Equal(t, `"abc"`, info.ETag)
		assert.Equal(t, "newsletter/welcome.html", info.Key)
	})

	t.Run("missing", func(t *testing.T) {
		rc, _, err := st.GetObject(context.Background(), "templates", "newsletter/nope.html")

		assert.Nil(t, rc)
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})
}

func TestS3Adapter_StatObject(t *testing.T) {
	st := newFakeS3(t)

	info, err := st.StatObject(context.Background(), "templates", "newsletter/welcome.html")
	require.NoError(t, err)
	assert.Equal(t, "text/html", info.ContentType)

	_, err = st.StatObject(context.Background(), "templates", "newsletter/nope.html")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
