package storage

import (
	"encoding/base64"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)
	return store
}

func TestSaveBase64(t *testing.T) {
	store := newTestStore(t)

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("pngbytes"))

	url, path, err := store.SaveBase64(payload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("pngbytes"), data)
}

func TestSaveBase64RejectsBadPayloads(t *testing.T) {
	store := newTestStore(t)

	testCases := []struct {
		name    string
		payload string
	}{
		{"no data prefix", base64.StdEncoding.EncodeToString([]byte("raw"))},
		{"unsupported format", "data:image/gif;base64,R0lGOD"},
		{"not base64", "data:image/png;base64,%%%%"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := store.SaveBase64(tc.payload)
			assert.Error(t, err)
		})
	}
}

func TestReadBase64RoundTrip(t *testing.T) {
	store := newTestStore(t)

	payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpegbytes"))
	_, path, err := store.SaveBase64(payload)
	require.NoError(t, err)

	encoded, err := store.ReadBase64(path)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), decoded)
}
