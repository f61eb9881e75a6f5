package heap

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/mheap/memutils"
	"github.com/vkngwrapper/mheap/memutils/block"
)

type blockSearchResultType uint32

const (
	searchFoundGoodBlock blockSearchResultType = iota
	searchReachedEndNotFound
)

var blockSearchResultTypeMapping = map[blockSearchResultType]string{
	searchFoundGoodBlock:     "FoundGoodBlock",
	searchReachedEndNotFound: "ReachedEndNotFound",
}

func (t blockSearchResultType) String() string {
	return blockSearchResultTypeMapping[t]
}

// blockSearchResult is the outcome of a chain search. When nothing fit, block is the last block
// in the chain.
type blockSearchResult struct {
	Type   blockSearchResultType
	Block  uintptr
	Header block.Header
}

// tryMergeWithNext absorbs the block following addr into it, if both are free and the following
// block begins where this one ends
func (h *Heap) tryMergeWithNext(addr uintptr) (bool, error) {
	header, err := h.readHeader(addr)
	if err != nil {
		return false, err
	}

	if header.Next == 0 || !header.IsFree {
		return false, nil
	}

	nextHeader, err := h.readHeader(header.Next)
	if err != nil {
		return false, err
	}

	if !block.Mergeable(addr, header, header.Next, nextHeader) {
		return false, nil
	}

	header.Capacity += block.SizeFromCapacity(nextHeader.Capacity)
	header.Next = nextHeader.Next
	return true, h.writeHeader(addr, header)
}

// coalesceFrom merges the block at addr with its successors for as long as they are free and
// contiguous, and returns how many blocks were absorbed. Calling it again immediately afterward
// absorbs nothing.
func (h *Heap) coalesceFrom(addr uintptr) (int, error) {
	var merged int
	for {
		ok, err := h.tryMergeWithNext(addr)
		if err != nil {
			return merged, err
		}
		if !ok {
			return merged, nil
		}
		merged++
	}
}

// findGoodOrLast walks the chain from start, coalescing each free block it meets, and returns the
// first free block with at least query bytes of capacity. If there is none, the result carries
// the last block of the chain.
func (h *Heap) findGoodOrLast(start uintptr, query int) (blockSearchResult, error) {
	if start == 0 {
		return blockSearchResult{}, errors.Wrap(memutils.CorruptedHeapError, "the block chain has no root")
	}

	current := start
	var last uintptr
	var lastHeader block.Header

	for current != 0 {
		header, err := h.readHeader(current)
		if err != nil {
			return blockSearchResult{}, err
		}

		if header.IsFree {
			_, err = h.coalesceFrom(current)
			if err != nil {
				return blockSearchResult{}, err
			}

			header, err = h.readHeader(current)
			if err != nil {
				return blockSearchResult{}, err
			}

			if header.Capacity >= query {
				return blockSearchResult{
					Type:   searchFoundGoodBlock,
					Block:  current,
					Header: header,
				}, nil
			}
		}

		last = current
		lastHeader = header
		current = header.Next
	}

	return blockSearchResult{
		Type:   searchReachedEndNotFound,
		Block:  last,
		Header: lastHeader,
	}, nil
}
