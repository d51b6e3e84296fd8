//go:build unix

package bus

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mapped is a file mapped read-write and shared into memory.
type Mapped struct {
	Bytes
	path string
}

// Map maps size bytes of the file at path, creating or extending it as needed.
func Map(path string, size int64) (*Mapped, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmap: size must be positive, got %d", size)
	}
	if size > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("mmap: size too large to map (%d bytes)", size)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close() // mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < size {
		if err := f.Truncate(size); err != nil {
			return nil, fmt.Errorf("mmap: extend %s: %w", path, err)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &Mapped{Bytes: data, path: path}, nil
}

// Path returns the mapped file's path.
func (m *Mapped) Path() string {
	return m.path
}

// Close flushes and unmaps the file. Closing twice is a no-op.
func (m *Mapped) Close() error {
	if m.Bytes == nil {
		return nil
	}
	data := []byte(m.Bytes)
	m.Bytes = nil
	if err := unix.Msync(data, unix.MS_SYNC); err != nil {
		_ = unix.Munmap(data)
		return err
	}
	return unix.Munmap(data)
}
