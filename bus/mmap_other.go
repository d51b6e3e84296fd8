//go:build !unix

package bus

import (
	"fmt"
	"os"
)

// Mapped holds a file's contents in memory when mmap is not available.
// Close writes the contents back.
type Mapped struct {
	Bytes
	path string
}

// Map reads size bytes of the file at path, creating or extending it as needed.
func Map(path string, size int64) (*Mapped, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmap: size must be positive, got %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	f.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	buf := make(Bytes, size)
	copy(buf, data)
	return &Mapped{Bytes: buf, path: path}, nil
}

// Path returns the backing file's path.
func (m *Mapped) Path() string {
	return m.path
}

// Close writes the contents back to the file. Closing twice is a no-op.
func (m *Mapped) Close() error {
	if m.Bytes == nil {
		return nil
	}
	data := []byte(m.Bytes)
	m.Bytes = nil
	return os.WriteFile(m.path, data, 0o644)
}
