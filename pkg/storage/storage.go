// Package storage stores uploaded files behind a small disk abstraction.
//
// Two drivers ship with the server:
//   - "local": files under STORAGE_LOCAL_ROOT, served from /storage/ (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2)
//
// The active driver is chosen by STORAGE_DISK.
package storage

import (
	"fmt"

	"github.com/nikhilrana/saman/config"
	"github.com/nikhilrana/saman/pkg/logger"
)

// Disk is the driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Delete removes a file. Removing a missing file is not an error.
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string
}

// Connect builds the disk selected by config. It falls back to the local
// driver when S3 is requested but not fully configured.
func Connect() Disk {
	if config.StorageDisk() == "s3" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disabled, using local disk", "error", err.Error())
			return newLocalDisk()
		}
		return d
	}
	return newLocalDisk()
}

// Use returns a specific driver by name, independent of config.
func Use(name string) (Disk, error) {
	switch name {
	case "local":
		return newLocalDisk(), nil
	case "s3":
		return newS3Disk()
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", name)
	}
}
