package s3

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient creates a Client backed by a test HTTP server speaking the
// S3 XML protocol.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "eu-central",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
	})

	return &Client{s3: client, region: "eu-central"}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("https://s3.example.com", "eu-central", "key", "secret")
	require.NoError(t, err)
	assert.Equal(t, "eu-central", client.region)
	assert.NotNil(t, client.s3)
}

func TestEnsureBucket(t *testing.T) {
	t.Run("bucket exists", func(t *testing.T) {
		creates := 0
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPut {
				creates++
			}
			w.WriteHeader(http.StatusOK)
		}))

		require.NoError(t, client.EnsureBucket(context.Background(), "backups"))
		assert.Zero(t, creates)
	})

	t.Run("bucket created when missing", func(t *testing.T) {
		creates := 0
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodHead:
				w.WriteHeader(http.StatusNotFound)
			case http.MethodPut:
				creates++
				w.WriteHeader(http.StatusOK)
			}
		}))

		require.NoError(t, client.EnsureBucket(context.Background(), "backups"))
		assert.Equal(t, 1, creates)
	})
}

func TestUploadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "mrf", "regions"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mrf", "regions", "east.json"), []byte("{}"), 0o600))

	var keys []string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			keys = append(keys, strings.TrimPrefix(r.URL.Path, "/backups/"))
		}
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.UploadDir(context.Background(), "backups", "vmanage-1", dir))
	assert.ElementsMatch(t, []string{
		"vmanage-1/catalog.json",
		"vmanage-1/mrf/regions/east.json",
	}, keys)
}

type fakeAPIError struct{ code string }

func (e *fakeAPIError) Error() string                 { return e.code }
func (e *fakeAPIError) ErrorCode() string             { return e.code }
func (e *fakeAPIError) ErrorMessage() string          { return e.code }
func (e *fakeAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func TestIsBucketAlreadyOwnedByYou(t *testing.T) {
	assert.False(t, isBucketAlreadyOwnedByYou(nil))
	assert.True(t, isBucketAlreadyOwnedByYou(&types.BucketAlreadyOwnedByYou{}))
	assert.True(t, isBucketAlreadyOwnedByYou(&types.BucketAlreadyExists{}))
	assert.True(t, isBucketAlreadyOwnedByYou(&fakeAPIError{code: "BucketAlreadyOwnedByYou"}))
	assert.False(t, isBucketAlreadyOwnedByYou(&fakeAPIError{code: "AccessDenied"}))
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, isNotFoundError(nil))
	assert.True(t, isNotFoundError(&types.NoSuchBucket{}))
	assert.True(t, isNotFoundError(&types.NotFound{}))
	assert.True(t, isNotFoundError(&fakeAPIError{code: "NotFound"}))
	assert.False(t, isNotFoundError(&fakeAPIError{code: "AccessDenied"}))
}
