//go:build unix

package heap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mapRegion reserves an anonymous read-write mapping of n bytes and
// returns it with a cleanup function.
func mapRegion(n int64) ([]byte, func() error, error) {
	if n > int64(^uint(0)>>1) {
		return nil, nil, fmt.Errorf("heap: region too large to map (%d bytes)", n)
	}
	data, err := unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("heap: mmap: %w", err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		return err
	}
	return data, cleanup, nil
}
