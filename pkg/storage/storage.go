// Package storage stores uploaded files (product images) on a local disk or
// an S3-compatible bucket, selected by config.
package storage

import (
	"fmt"
	"io"

	"github.com/shashiranjanraj/dukaan/config"
)

// Disk is the minimal surface a storage driver must provide.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	Delete(path string) error
	// URL returns the public URL for path.
	URL(path string) string
}

// Manager holds the configured disks. Built once at startup and injected
// where uploads are handled.
type Manager struct {
	disks       map[string]Disk
	defaultDisk string
}

// Connect boots the storage manager. The local disk is always available;
// the S3 disk is added when S3_BUCKET is configured.
func Connect() (*Manager, error) {
	m := &Manager{
		disks:       map[string]Disk{"local": newLocalDisk()},
		defaultDisk: config.StorageDefault(),
	}

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			return nil, fmt.Errorf("storage: boot s3: %w", err)
		}
		m.disks["s3"] = d
	}

	if _, ok := m.disks[m.defaultDisk]; !ok {
		return nil, fmt.Errorf("storage: default disk %q is not configured", m.defaultDisk)
	}

	return m, nil
}

// Use returns the named disk ("local" or "s3").
func (m *Manager) Use(name string) (Disk, error) {
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK.
func (m *Manager) Default() Disk {
	return m.disks[m.defaultDisk]
}
