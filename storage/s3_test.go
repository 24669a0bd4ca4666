package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBody = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>media</Name>
  <Prefix>7/</Prefix>
  <KeyCount>3</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>7/</Key><Size>0</Size></Contents>
  <Contents><Key>7/b.mp3</Key><Size>3</Size></Contents>
  <Contents><Key>7/a.wav</Key><Size>3</Size></Contents>
</ListBucketResult>`

// fakeS3 answers just enough of the S3 REST API for a path-style client
func fakeS3(t *testing.T) *httptest.Server {
	objects := map[string]string{"/media/7/a.wav": "abc"}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && (r.URL.Path == "/media" || r.URL.Path == "/media/"):
			w.Header().Set("Content-Type", "application/xml")
			io.WriteString(w, listBody)
		case r.Method == http.MethodPut:
			data, _ := io.ReadAll(r.Body)
			objects[r.URL.Path] = string(data)
		case r.Method == http.MethodHead:
			if _, ok := objects[r.URL.Path]; !ok {
				w.WriteHeader(http.StatusNotFound)
			}
		case r.Method == http.MethodGet:
			data, ok := objects[r.URL.Path]
			if !ok {
				w.Header().Set("Content-Type", "application/xml")
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
				return
			}
			io.WriteString(w, data)
		case r.Method == http.MethodDelete:
			delete(objects, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
	}))
}

func newTestS3Store(t *testing.T) *S3Store {
	srv := fakeS3(t)
	t.Cleanup(srv.Close)
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")

	s, err := NewS3Store(context.Background(), S3Options{
		Bucket:    "media",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)
	return s
}

func TestS3List(t *testing.T) {
	s := newTestS3Store(t)
	names, err := s.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.wav", "b.mp3"}, names)
}

func TestS3RetrieveAndDelete(t *testing.T) {
	s := newTestS3Store(t)
	ctx := context.Background()

	rc, err := s.Retrieve(ctx, 7, "a.wav")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	_, err = s.Retrieve(ctx, 7, "missing.wav")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, 7, "missing.wav"), ErrNotFound)
	require.NoError(t, s.Delete(ctx, 7, "a.wav"))
}

func TestS3Store(t *testing.T) {
	s := newTestS3Store(t)
	ctx := context.Background()

	require.NoError(t, s.Store(ctx, 9, "new.mp3", strings.NewReader("xyz")))
	require.NoError(t, s.EnsureUser(ctx, 9))

	rc, err := s.Retrieve(ctx, 9, "new.mp3")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "xyz", string(data))
}
