package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikhilrana/saman/config"
)

// localDisk writes below a root directory on the local filesystem.
type localDisk struct {
	root    string
	baseURL string
}

func newLocalDisk() *localDisk {
	return &localDisk{
		root:    config.StorageLocalRoot(),
		baseURL: strings.TrimRight(config.StorageURL(), "/"),
	}
}

// Root returns the on-disk directory files are written to.
func (d *localDisk) Root() string { return d.root }

// abs resolves path inside the root, rejecting traversal outside it.
func (d *localDisk) abs(path string) (string, error) {
	clean := filepath.Join(d.root, filepath.FromSlash(path))
	if !strings.HasPrefix(clean, filepath.Clean(d.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage/local: path %q escapes root", path)
	}
	return clean, nil
}

func (d *localDisk) Put(path string, content []byte) error {
	full, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) Get(path string) ([]byte, error) {
	full, err := d.abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("storage/local: read %s: %w", path, err)
	}
	return data, nil
}

func (d *localDisk) Exists(path string) bool {
	full, err := d.abs(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (d *localDisk) Delete(path string) error {
	full, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(path, "/")
}
