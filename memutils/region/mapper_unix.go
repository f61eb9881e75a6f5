//go:build unix

package region

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/mheap/memutils"
	"golang.org/x/sys/unix"
)

type unixMapper struct {
	pageSize int
}

var _ PageMapper = &unixMapper{}

// NewMapper returns a PageMapper backed by mmap and munmap
func NewMapper() PageMapper {
	pageSize := unix.Getpagesize()
	memutils.DebugCheckPow2(pageSize, "page size")

	return &unixMapper{pageSize: pageSize}
}

func (m *unixMapper) PageSize() int { return m.pageSize }

func (m *unixMapper) Map(hint uintptr, length int, placement Placement) ([]byte, error) {
	flags := unix.MAP_PRIVATE | unix.MAP_ANON
	if placement == PlacementFixedNoReplace {
		if !fixedNoReplaceSupported {
			return nil, errors.Newf("placement %s is not supported on this platform", placement)
		}
		flags |= fixedNoReplaceFlag
	}

	ptr, err := unix.MmapPtr(-1, 0, unsafe.Pointer(hint), uintptr(length), unix.PROT_READ|unix.PROT_WRITE, flags)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap of %d bytes at %#x with placement %s", length, hint, placement)
	}

	return unsafe.Slice((*byte)(ptr), length), nil
}

func (m *unixMapper) Unmap(memory []byte) error {
	if len(memory) == 0 {
		return nil
	}

	err := unix.MunmapPtr(unsafe.Pointer(unsafe.SliceData(memory)), uintptr(len(memory)))
	if err != nil {
		return errors.Wrapf(err, "munmap of %d bytes at %#x", len(memory), Address(memory))
	}
	return nil
}
