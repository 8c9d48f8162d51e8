package rawdisk

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

var _ Medium = (*fileMedium)(nil)

// fileMedium is a scratch medium backed by a real file, using
// unix.Pread/Pwrite/Fsync/Ftruncate and addressed by arbitrary byte offset
// rather than fixed block number.
type fileMedium struct {
	fd   int
	size uint64
}

// OpenFile opens (creating if needed) path as a size-byte scratch medium.
func OpenFile(path string, size uint64) (Medium, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT, 0666)
	if err != nil {
		return nil, err
	}
	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if (stat.Mode&unix.S_IFREG) != 0 && uint64(stat.Size) != size {
		if err := unix.Ftruncate(fd, int64(size)); err != nil {
			unix.Close(fd)
			return nil, err
		}
	}
	return &fileMedium{fd: fd, size: size}, nil
}

func (m *fileMedium) ReadAt(off uint64, n uint32) ([]byte, error) {
	if off+uint64(n) > m.size {
		return nil, fmt.Errorf("rawdisk: out-of-bounds read at %d, len %d", off, n)
	}
	buf := make([]byte, n)
	_, err := unix.Pread(m.fd, buf, int64(off))
	return buf, err
}

func (m *fileMedium) WriteAt(off uint64, v []byte) error {
	if off+uint64(len(v)) > m.size {
		return fmt.Errorf("rawdisk: out-of-bounds write at %d, len %d", off, len(v))
	}
	_, err := unix.Pwrite(m.fd, v, int64(off))
	return err
}

func (m *fileMedium) Sync() error {
	return unix.Fsync(m.fd)
}

func (m *fileMedium) Close() error {
	return unix.Close(m.fd)
}

var _ Medium = (*memMedium)(nil)

// memMedium is a scratch medium backed by a plain byte slice.
type memMedium struct {
	mu   sync.RWMutex
	data []byte
}

// OpenMem returns a size-byte in-memory scratch medium.
func OpenMem(size uint64) Medium {
	return &memMedium{data: make([]byte, size)}
}

func (m *memMedium) ReadAt(off uint64, n uint32) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if off+uint64(n) > uint64(len(m.data)) {
		return nil, fmt.Errorf("rawdisk: out-of-bounds read at %d, len %d", off, n)
	}
	buf := make([]byte, n)
	copy(buf, m.data[off:off+uint64(n)])
	return buf, nil
}

func (m *memMedium) WriteAt(off uint64, v []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off+uint64(len(v)) > uint64(len(m.data)) {
		return fmt.Errorf("rawdisk: out-of-bounds write at %d, len %d", off, len(v))
	}
	copy(m.data[off:], v)
	return nil
}

func (m *memMedium) Sync() error { return nil }

func (m *memMedium) Close() error { return nil }
