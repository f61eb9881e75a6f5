package heap

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/mheap/memutils"
	"github.com/vkngwrapper/mheap/memutils/block"
	"github.com/vkngwrapper/mheap/memutils/region"
	"golang.org/x/exp/slog"
)

// alignQuery rounds a requested size up to the capacity of the block that will hold it. Rounding
// to ContentAlignment keeps the header of every split remainder 8-byte aligned.
func alignQuery(query int) int {
	return memutils.AlignUp(max(query, block.MinCapacity), block.ContentAlignment)
}

// splitIfTooBig shrinks the block at addr to query bytes when the rest of it can hold another
// block, and links the remainder in after it as a new free block
func (h *Heap) splitIfTooBig(addr uintptr, header block.Header, query int) (block.Header, error) {
	if !block.Splittable(header, query) {
		return header, nil
	}

	remainderAddr := block.ContentAddress(addr) + uintptr(query)
	remainder := block.Header{
		Next:     header.Next,
		Capacity: header.Capacity - query - block.HeaderSize,
		IsFree:   true,
	}

	err := h.writeHeader(remainderAddr, remainder)
	if err != nil {
		return header, err
	}

	header.Next = remainderAddr
	header.Capacity = query
	return header, nil
}

// tryAllocateExisting searches the chain from start and, if a block fits, takes it. The heap is
// never grown.
func (h *Heap) tryAllocateExisting(start uintptr, query int) (blockSearchResult, error) {
	result, err := h.findGoodOrLast(start, query)
	if err != nil {
		return result, err
	}

	if result.Type != searchFoundGoodBlock {
		return result, nil
	}

	header, err := h.splitIfTooBig(result.Block, result.Header, query)
	if err != nil {
		return result, err
	}

	header.IsFree = false
	result.Header = header
	return result, h.writeHeader(result.Block, header)
}

// grow maps a new region able to hold query bytes, requesting it directly after the last block,
// and links it onto the end of the chain. It returns the block that now begins the new free
// space: the last block itself when the new region could be merged into it, or the new region's
// block otherwise.
func (h *Heap) grow(last uintptr, lastHeader block.Header, query int) (uintptr, error) {
	hint := region.HeapStart
	if last != 0 {
		hint = block.After(last, lastHeader)
	}

	h.logger.Debug("  Heap::grow",
		slog.String("Hint", fmt.Sprintf("%#x", hint)),
		slog.Int("Query", query))

	r, err := region.Map(h.logger, h.mapper, hint, query)
	if err != nil {
		return 0, err
	}

	h.addRegion(r, last)

	if last == 0 {
		h.heapStart = r.Address
		return r.Address, nil
	}

	lastHeader.Next = r.Address
	err = h.writeHeader(last, lastHeader)
	if err != nil {
		return 0, err
	}

	if r.Extends {
		merged, err := h.tryMergeWithNext(last)
		if err != nil {
			return 0, err
		}
		if merged {
			return last, nil
		}
	} else {
		h.logger.Debug("    new region does not extend the heap",
			slog.String("Address", fmt.Sprintf("%#x", r.Address)))
	}

	return r.Address, nil
}

// memalloc finds or makes room for query bytes and returns the address of the allocated block.
// The heap is grown at most once; if the grown heap still has no block large enough, the
// allocation fails.
func (h *Heap) memalloc(query int) (uintptr, error) {
	alignedQuery := alignQuery(query)

	result, err := h.tryAllocateExisting(h.heapStart, alignedQuery)
	if err != nil {
		return 0, err
	}
	if result.Type == searchFoundGoodBlock {
		return result.Block, nil
	}

	start, err := h.grow(result.Block, result.Header, alignedQuery)
	if err != nil {
		return 0, err
	}

	result, err = h.tryAllocateExisting(start, alignedQuery)
	if err != nil {
		return 0, err
	}
	if result.Type != searchFoundGoodBlock {
		return 0, errors.Wrapf(memutils.OutOfMemoryError, "%d bytes after growing the heap at %#x", alignedQuery, start)
	}

	return result.Block, nil
}
