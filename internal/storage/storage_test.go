package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/internal/config"
)

func TestUniqueKey(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	key := uniqueKey("dir/survey results.csv", now)
	assert.Regexp(t, regexp.MustCompile(`^survey results_20240301_093000_[0-9a-f]{8}\.csv$`), key)
	assert.NotEqual(t, key, uniqueKey("survey results.csv", now))
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, validateKey("a_20240101_000000_deadbeef.csv"))
	for _, bad := range []string{"", "/etc/passwd", "../secret", "a/../../b"} {
		assert.ErrorIs(t, validateKey(bad), core.ErrInvalidInput, bad)
	}
}

func TestLocalFileStorage(t *testing.T) {
	ctx := context.Background()
	s := NewLocalFileStorageWithPath(t.TempDir())
	assert.Equal(t, DriverLocal, s.Driver())

	key, err := s.Store(ctx, "upload.csv", strings.NewReader("Ethnicity\nIndian\n"), "text/csv")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".csv"))

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "Ethnicity\nIndian\n", string(data))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, core.ErrObjectNotFound)
	_, err = s.Open(ctx, "../outside")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestNewSelectsDriver(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Driver: "local", Path: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverLocal, s.Driver())

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.StorageConfig{Driver: "s3"})
	assert.Error(t, err, "bucket is required")
}

func TestNewS3UsesConfiguredCredentials(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, config.StorageConfig{
		Driver:            DriverS3,
		S3Bucket:          "uploads",
		S3AccessKeyID:     "AKID",
		S3SecretAccessKey: "SECRET",
	})
	require.NoError(t, err)
	require.Equal(t, DriverS3, s.Driver())

	creds, err := s.(*S3FileStorage).client.Options().Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AKID", creds.AccessKeyID)
	assert.Equal(t, "SECRET", creds.SecretAccessKey)
}

func TestLocalStoreReportsWriteFailure(t *testing.T) {
	s := NewLocalFileStorageWithPath(t.TempDir())

	_, err := s.Store(context.Background(), "survey.csv", failingReader{}, "text/csv")
	require.Error(t, err)

	entries, err := os.ReadDir(s.basePath)
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed store leaves no partial file")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk went away") }

// fakeS3 answers the handful of path-style object calls the store makes
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// path is /<bucket>/<key>
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	respond := func(status int, body []byte, header http.Header) *http.Response {
		if header == nil {
			header = http.Header{}
		}
		return &http.Response{
			StatusCode:    status,
			Body:          io.NopCloser(bytes.NewReader(body)),
			Header:        header,
			ContentLength: int64(len(body)),
			Request:       req,
		}
	}

	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		f.puts = append(f.puts, req.Header.Get("Content-Type"))
		return respond(http.StatusOK, nil, http.Header{"Etag": {`"etag"`}}), nil
	case http.MethodHead:
		if body, ok := f.objects[key]; ok {
			return respond(http.StatusOK, nil, http.Header{"Content-Length": {fmt.Sprint(len(body))}}), nil
		}
		return respond(http.StatusNotFound, nil, nil), nil
	case http.MethodGet:
		if body, ok := f.objects[key]; ok {
			return respond(http.StatusOK, body, http.Header{"Content-Length": {fmt.Sprint(len(body))}}), nil
		}
		notFound := []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
		return respond(http.StatusNotFound, notFound, http.Header{"Content-Type": {"application/xml"}}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, nil, nil), nil
	}
	return respond(http.StatusNotImplemented, nil, nil), nil
}

func newFakeS3Storage(t *testing.T) (*S3FileStorage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	s, err := NewS3FileStorage(context.Background(), S3Config{
		Bucket:          "standardised",
		Region:          "eu-west-2",
		Endpoint:        "http://s3.test",
		PathStyle:       true,
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
	require.NoError(t, err)
	return s, fake
}

func TestS3FileStorage(t *testing.T) {
	ctx := context.Background()
	s, fake := newFakeS3Storage(t)
	assert.Equal(t, DriverS3, s.Driver())

	// a non-seekable reader forces buffering
	key, err := s.Store(ctx, "output.csv", io.MultiReader(strings.NewReader("a,b\n"), strings.NewReader("1,2\n")), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(fake.objects[key]))
	assert.Equal(t, []string{"text/csv"}, fake.puts)

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))

	require.NoError(t, s.Delete(ctx, key))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, core.ErrObjectNotFound)
}

func TestS3PresignURL(t *testing.T) {
	s, _ := newFakeS3Storage(t)
	url, err := s.PresignURL(context.Background(), "report.csv", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "http://s3.test/standardised/report.csv")
	assert.Contains(t, url, "X-Amz-Expires=60")
}
