package heap

import (
	"github.com/pkg/errors"
	"github.com/vkngwrapper/mheap/memutils/block"
)

// Validate performs internal consistency checks on the block chain. It is expensive, walking every
// block in the heap. When the heap is functioning correctly it should not be possible for this
// method to return an error, but this may assist in diagnosing misuse such as writing past the end
// of an allocation.
func (h *Heap) Validate() error {
	if h.heapStart == 0 {
		if len(h.spans) != 0 {
			return errors.New("the heap has mapped memory but no heap start")
		}
		return nil
	}

	var mappedBytes int
	for _, s := range h.spans {
		mappedBytes += len(s.memory)
	}
	maxBlocks := mappedBytes / block.SizeFromCapacity(block.MinCapacity)

	var blockCount, chainBytes int
	for current := h.heapStart; current != 0; {
		s, offset, found := h.spanFor(current)
		if !found {
			return errors.Errorf("block at %#x is outside the heap's mapped memory", current)
		}

		if block.ContentAddress(current)%uintptr(block.ContentAlignment) != 0 {
			return errors.Errorf("block at %#x has misaligned content", current)
		}

		if offset+block.HeaderSize > len(s.memory) {
			return errors.Errorf("block header at %#x crosses the end of its region", current)
		}

		header := block.Read(s.memory, offset)
		if header.Capacity < block.MinCapacity {
			return errors.Errorf("block at %#x has capacity %d, below the minimum of %d", current, header.Capacity, block.MinCapacity)
		}

		if block.After(current, header) > s.end() {
			return errors.Errorf("block at %#x with capacity %d runs past the end of its region", current, header.Capacity)
		}

		if header.Next != 0 && block.After(current, header) != s.end() && !block.Continuous(current, header, header.Next) {
			return errors.Errorf("block at %#x is followed by %#x, leaving a gap inside its region", current, header.Next)
		}

		blockCount++
		if blockCount > maxBlocks {
			return errors.Errorf("the block chain has more than the %d blocks its memory can hold and likely contains a cycle", maxBlocks)
		}

		chainBytes += block.SizeFromCapacity(header.Capacity)
		current = header.Next
	}

	if chainBytes != mappedBytes {
		return errors.Errorf("the block chain covers %d bytes, but the heap has %d bytes mapped", chainBytes, mappedBytes)
	}

	return nil
}
