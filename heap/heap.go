// Package heap is a first-fit allocator that hands out memory carved directly from anonymous
// operating system mappings.
//
// A Heap is a singly-linked chain of blocks (see the memutils/block package) threaded through one
// or more regions (see the memutils/region package). Allocation walks the chain from the heap
// start, merging free neighbors as it goes, and takes the first block large enough for the
// request, splitting off whatever it does not need. When no block fits, the heap grows by mapping
// a new region, preferably directly after the current end of the heap so that the new memory can
// be merged into the last block.
//
// A Heap is not safe for concurrent use. Consumers that share one between goroutines must
// synchronize access themselves.
package heap

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/mheap/memutils"
	"github.com/vkngwrapper/mheap/memutils/block"
	"github.com/vkngwrapper/mheap/memutils/region"
	"golang.org/x/exp/slog"
)

// Pointer is the address of the content of an allocation
type Pointer uintptr

// Null is the Pointer returned alongside every error
const Null Pointer = 0

func (p Pointer) String() string {
	return fmt.Sprintf("%#x", uintptr(p))
}

// maxQuery is the largest allocation size that is passed on to the region manager. Anything
// larger could not be mapped anyway, and would overflow size arithmetic.
const maxQuery int = math.MaxInt >> 2

// CreateOptions contains optional settings when creating a Heap
type CreateOptions struct {
	// Mapper is the source of memory regions. If left nil, the operating system's anonymous
	// mappings are used via region.NewMapper.
	Mapper region.PageMapper
}

// Heap is a single allocator instance. The zero value is not usable; create one with New, then
// call Init before making allocations.
type Heap struct {
	logger *slog.Logger
	mapper region.PageMapper

	heapStart uintptr
	spans     []*span
	regions   *swiss.Map[uintptr, region.Region]
}

// New creates a new Heap. No memory is mapped until Init is called.
func New(logger *slog.Logger, options CreateOptions) *Heap {
	mapper := options.Mapper
	if mapper == nil {
		mapper = region.NewMapper()
	}

	return &Heap{
		logger:  logger,
		mapper:  mapper,
		regions: swiss.NewMap[uintptr, region.Region](8),
	}
}

// Init maps the heap's first region, able to hold at least initialSize bytes, and returns its
// address. The region is requested at region.HeapStart; if that address is unavailable, the
// region is placed wherever the operating system chooses and that address becomes the heap start.
//
// Init must be called before any other method. Calling it again is only valid after Terminate.
func (h *Heap) Init(initialSize int) (Pointer, error) {
	h.logger.Debug("Heap::Init", slog.Int("InitialSize", initialSize))

	if h.heapStart != 0 {
		return Null, errors.Wrapf(memutils.AlreadyInitializedError, "heap starting at %#x", h.heapStart)
	}
	if initialSize < 0 || initialSize > maxQuery {
		return Null, errors.Wrapf(memutils.InvalidSizeError, "initial size %d", initialSize)
	}

	r, err := region.Map(h.logger, h.mapper, region.HeapStart, initialSize)
	if err != nil {
		return Null, err
	}

	if !r.Extends {
		h.logger.Warn("heap start address was unavailable, the heap was placed elsewhere",
			slog.String("Requested", fmt.Sprintf("%#x", region.HeapStart)),
			slog.String("Actual", fmt.Sprintf("%#x", r.Address)))
	}

	h.addRegion(r, 0)
	h.heapStart = r.Address

	memutils.DebugValidate(h)
	return Pointer(r.Address), nil
}

// HeapStart returns the address of the first block in the heap, or Null if the heap has not been
// initialized
func (h *Heap) HeapStart() Pointer {
	return Pointer(h.heapStart)
}

// Allocate returns a pointer to at least size bytes of memory, aligned to 8 bytes. The contents
// are not zeroed. Null and an error are returned if no memory could be mapped or the heap is found
// to be corrupted (which includes calling Allocate before Init).
func (h *Heap) Allocate(size int) (Pointer, error) {
	h.logger.Debug("Heap::Allocate", slog.Int("Size", size))

	if size < 0 || size > maxQuery {
		return Null, errors.Wrapf(memutils.InvalidSizeError, "requested size %d", size)
	}

	addr, err := h.memalloc(size)
	if err != nil {
		h.logger.Debug("  Allocate FAILED", slog.Int("Size", size), slog.Any("error", err))
		return Null, err
	}

	memutils.DebugValidate(h)
	return Pointer(block.ContentAddress(addr)), nil
}

// Release returns an allocation to the heap. Releasing Null does nothing. The block is merged
// with any free blocks that follow it directly in memory; free blocks before it absorb it the
// next time an allocation passes over them.
//
// ptr must have been returned from Allocate on this heap and not released since. Pointers outside
// the heap's memory are reported with memutils.ForeignPointerError, but other misuse is not detected.
func (h *Heap) Release(ptr Pointer) error {
	h.logger.Debug("Heap::Release", slog.String("Pointer", ptr.String()))

	if ptr == Null {
		return nil
	}

	addr := block.HeaderAddress(uintptr(ptr))
	header, err := h.readHeader(addr)
	if err != nil {
		return errors.Wrapf(memutils.ForeignPointerError, "releasing %s", ptr)
	}

	header.IsFree = true
	err = h.writeHeader(addr, header)
	if err != nil {
		return err
	}

	_, err = h.coalesceFrom(addr)
	if err != nil {
		return err
	}

	memutils.DebugValidate(h)
	return nil
}

// Terminate returns every region to the operating system. Blocks that are contiguous in memory
// are unmapped together, regardless of whether they are allocated. If unmapping fails, the
// remaining regions are left mapped and an error wrapping memutils.UnmapFailedError is returned.
//
// After a successful Terminate the heap is back in its uninitialized state.
func (h *Heap) Terminate() error {
	h.logger.Debug("Heap::Terminate")

	err := h.terminate()
	if err != nil {
		return err
	}

	h.reset()
	return nil
}
