//go:build !unix

package region

import (
	"os"

	"github.com/vkngwrapper/mheap/memutils"
)

type unsupportedMapper struct{}

// NewMapper returns a PageMapper that refuses every request, since anonymous mappings at chosen
// addresses are not available on this platform
func NewMapper() PageMapper {
	return unsupportedMapper{}
}

func (unsupportedMapper) PageSize() int { return os.Getpagesize() }

func (unsupportedMapper) Map(hint uintptr, length int, placement Placement) ([]byte, error) {
	return nil, memutils.UnsupportedPlatformError
}

func (unsupportedMapper) Unmap(memory []byte) error {
	return memutils.UnsupportedPlatformError
}
