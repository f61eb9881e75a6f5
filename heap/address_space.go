package heap

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/mheap/memutils"
	"github.com/vkngwrapper/mheap/memutils/block"
	"github.com/vkngwrapper/mheap/memutils/region"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// span is a run of memory that is contiguous in the address space: a single region, or a region
// followed by every region that extended it. Blocks never cross a span boundary.
type span struct {
	address uintptr
	memory  []byte
}

func (s *span) end() uintptr {
	return s.address + uintptr(len(s.memory))
}

func compareSpan(s *span, addr uintptr) int {
	if s.end() <= addr {
		return -1
	} else if s.address > addr {
		return 1
	}
	return 0
}

// spanFor returns the span containing addr and the offset of addr within it
func (h *Heap) spanFor(addr uintptr) (*span, int, bool) {
	index, found := slices.BinarySearchFunc(h.spans, addr, compareSpan)
	if !found {
		return nil, 0, false
	}

	s := h.spans[index]
	return s, int(addr - s.address), true
}

// addRegion makes a freshly mapped region addressable. A region that extends the chain tail at
// tail is folded into the tail's span; any other region gets a span of its own, even if it happens
// to border an existing one.
func (h *Heap) addRegion(r region.Region, tail uintptr) {
	h.regions.Put(r.Address, r)

	if r.Extends && tail != 0 {
		prev, _, found := h.spanFor(tail)
		if found && prev.end() == r.Address {
			h.logger.Debug("    extending span",
				slog.Int("SpanSize", len(prev.memory)),
				slog.Int("RegionSize", r.Size))
			prev.memory = region.Join(prev.memory, r.Memory)
			return
		}
	}

	index, _ := slices.BinarySearchFunc(h.spans, r.Address, compareSpan)
	h.spans = slices.Insert(h.spans, index, &span{
		address: r.Address,
		memory:  r.Memory,
	})
}

// forgetRange drops every span and region lying within [addr, addr+size) after it has been unmapped
func (h *Heap) forgetRange(addr uintptr, size int) {
	end := addr + uintptr(size)

	h.spans = slices.DeleteFunc(h.spans, func(s *span) bool {
		return s.address >= addr && s.end() <= end
	})

	var unmapped []uintptr
	h.regions.Iter(func(regionAddr uintptr, _ region.Region) bool {
		if regionAddr >= addr && regionAddr < end {
			unmapped = append(unmapped, regionAddr)
		}
		return false
	})
	for _, regionAddr := range unmapped {
		h.regions.Delete(regionAddr)
	}
}

func (h *Heap) reset() {
	h.heapStart = 0
	h.spans = nil
	h.regions = swiss.NewMap[uintptr, region.Region](8)
}

// memoryRange returns the mapped bytes [addr, addr+size), which must lie within a single span
func (h *Heap) memoryRange(addr uintptr, size int) ([]byte, error) {
	s, offset, found := h.spanFor(addr)
	if !found || offset+size > len(s.memory) {
		return nil, errors.Wrapf(memutils.CorruptedHeapError, "range of %d bytes at %#x is not mapped by this heap", size, addr)
	}

	return s.memory[offset : offset+size : offset+size], nil
}

func (h *Heap) readHeader(addr uintptr) (block.Header, error) {
	s, offset, found := h.spanFor(addr)
	if !found || offset+block.HeaderSize > len(s.memory) {
		return block.Header{}, errors.Wrapf(memutils.CorruptedHeapError, "block header at %#x is not mapped by this heap", addr)
	}

	return block.Read(s.memory, offset), nil
}

func (h *Heap) writeHeader(addr uintptr, header block.Header) error {
	s, offset, found := h.spanFor(addr)
	if !found || offset+block.HeaderSize > len(s.memory) {
		return errors.Wrapf(memutils.CorruptedHeapError, "block header at %#x is not mapped by this heap", addr)
	}

	block.Write(s.memory, offset, header)
	return nil
}
