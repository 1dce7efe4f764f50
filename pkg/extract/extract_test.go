package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestCSVText(t *testing.T) {
	path := writeFile(t, "access_review.csv", []byte("user,role,mfa\nalice,admin,yes\nbob,,no\n"))

	text, err := Text(path)
	require.NoError(t, err)

	assert.Contains(t, text, "CSV Document with columns: user, role, mfa")
	assert.Contains(t, text, "Row 1: user: alice | role: admin | mfa: yes")
	// Empty cells are dropped
	assert.Contains(t, text, "Row 2: user: bob | mfa: no")
}

func TestJSONText(t *testing.T) {
	path := writeFile(t, "policy.json", []byte(`{"name":"Access Policy","version":2}`))

	text, err := Text(path)
	require.NoError(t, err)

	assert.Contains(t, text, "JSON Document:")
	assert.Contains(t, text, `"name": "Access Policy"`)
	assert.Contains(t, text, `"version": 2`)
}

func TestPlainText(t *testing.T) {
	for _, ext := range []string{".txt", ".md"} {
		path := writeFile(t, "policy"+ext, []byte("Security policy contents"))
		text, err := Text(path)
		require.NoError(t, err)
		assert.Equal(t, "Security policy contents", text)
	}
}

func TestUnknownExtensionFallsBackToPlainText(t *testing.T) {
	path := writeFile(t, "notes.log", []byte("incident response log"))

	text, err := Text(path)
	require.NoError(t, err)
	assert.Equal(t, "incident response log", text)
}

func TestUnknownBinaryIsUnsupported(t *testing.T) {
	path := writeFile(t, "image.bin", []byte{0x00, 0xff, 0xfe, 0x00, 0x01})

	_, err := Text(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestMissingFile(t *testing.T) {
	_, err := Text(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMalformedJSON(t *testing.T) {
	path := writeFile(t, "broken.json", []byte("{not json"))

	_, err := Text(path)
	assert.Error(t, err)
}
