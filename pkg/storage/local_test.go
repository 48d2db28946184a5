package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocalDisk(t *testing.T) *localDisk {
	t.Helper()
	return &localDisk{root: t.TempDir(), baseURL: "/storage"}
}

func TestLocalPutGetDelete(t *testing.T) {
	disk := testLocalDisk(t)

	require.NoError(t, disk.Put("products/a.png", []byte("img")))
	assert.True(t, disk.Exists("products/a.png"))

	data, err := disk.Get("products/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)

	require.NoError(t, disk.Delete("products/a.png"))
	assert.False(t, disk.Exists("products/a.png"))

	// Deleting a missing file is not an error.
	assert.NoError(t, disk.Delete("products/a.png"))
}

func TestLocalRejectsTraversal(t *testing.T) {
	disk := testLocalDisk(t)

	assert.Error(t, disk.Put("../escape.txt", []byte("x")))
	_, err := disk.Get("../../etc/passwd")
	assert.Error(t, err)
	assert.False(t, disk.Exists("../escape.txt"))
}

func TestLocalURL(t *testing.T) {
	disk := testLocalDisk(t)
	assert.Equal(t, "/storage/products/a.png", disk.URL("products/a.png"))
	assert.Equal(t, "/storage/products/a.png", disk.URL("/products/a.png"))
}

func TestUseUnknownDisk(t *testing.T) {
	_, err := Use("tape")
	assert.Error(t, err)
}
