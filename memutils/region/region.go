// Package region maps the operating system memory that heap blocks live in. A region is one
// contiguous anonymous mapping that starts out holding a single free block spanning the whole
// mapping.
package region

import (
	"fmt"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/mheap/memutils"
	"github.com/vkngwrapper/mheap/memutils/block"
	"golang.org/x/exp/slog"
)

const (
	// HeapStart is the well-known address the first region of every heap is requested at
	HeapStart uintptr = 0x04040000
	// MinPages is the minimum size of a region, in pages
	MinPages int = 2
)

// Region is a single contiguous mapping obtained from a PageMapper
type Region struct {
	Address uintptr
	// Size is the size of the mapping in bytes, always a whole number of pages
	Size int
	// Extends is true when the mapping was placed exactly at the requested hint address, which makes
	// it a seamless continuation of whatever ends at the hint
	Extends bool
	Memory  []byte
}

// Invalid is the region returned when no mapping could be made
var Invalid = Region{}

// IsInvalid returns true for a region that does not represent a mapping
func (r Region) IsInvalid() bool {
	return r.Address == 0
}

// ActualSize returns the size of a region that can hold query bytes: query rounded up to whole
// pages, but never less than MinPages pages
func ActualSize(pageSize int, query int) int {
	return max(memutils.RoundToPages(query, pageSize), MinPages*pageSize)
}

// Map creates a region able to hold a block with at least capacity bytes of content. It first
// asks for the mapping to be placed exactly at hint and, if that is refused, asks again letting
// the operating system choose. The region's memory is initialized as a single free block.
//
// When both attempts fail, Invalid is returned along with an error wrapping
// memutils.MappingFailedError.
func Map(logger *slog.Logger, mapper PageMapper, hint uintptr, capacity int) (Region, error) {
	size := ActualSize(mapper.PageSize(), block.SizeFromCapacity(capacity))

	memory, err := mapper.Map(hint, size, PlacementFixedNoReplace)
	if err != nil {
		logger.Debug("    region::Map fixed placement refused",
			slog.String("Hint", fmt.Sprintf("%#x", hint)),
			slog.Int("Size", size),
			slog.Any("error", err))

		var retryErr error
		memory, retryErr = mapper.Map(hint, size, PlacementAnywhere)
		if retryErr != nil {
			return Invalid, errors.WithSecondaryError(
				errors.Wrapf(memutils.MappingFailedError, "could not map %d bytes: %v", size, retryErr),
				retryErr)
		}
	}

	region := Region{
		Address: Address(memory),
		Size:    size,
		Memory:  memory,
	}
	region.Extends = region.Address == hint
	block.Init(region.Memory, 0, region.Size, 0)

	return region, nil
}

// Address returns the address of the first byte of memory
func Address(memory []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(memory)))
}

// Join returns a single slice covering head followed by tail. tail must begin exactly where head
// ends, as is the case for a region that extends another one.
func Join(head, tail []byte) []byte {
	if Address(head)+uintptr(len(head)) != Address(tail) {
		panic("attempted to join memory ranges that are not adjacent")
	}

	return unsafe.Slice(unsafe.SliceData(head), len(head)+len(tail))
}
