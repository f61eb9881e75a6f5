package heap

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/mheap/memutils"
	"github.com/vkngwrapper/mheap/memutils/block"
	"golang.org/x/exp/slog"
)

// contiguousRun measures the run of blocks starting at addr in which each block begins where the
// previous one ends. It returns the total size of the run and the first block after it.
func (h *Heap) contiguousRun(addr uintptr) (int, uintptr, error) {
	header, err := h.readHeader(addr)
	if err != nil {
		return 0, 0, err
	}

	size := block.SizeFromCapacity(header.Capacity)
	last, lastHeader := addr, header

	for lastHeader.Next != 0 && block.Continuous(last, lastHeader, lastHeader.Next) {
		next := lastHeader.Next
		nextHeader, err := h.readHeader(next)
		if err != nil {
			return 0, 0, err
		}

		size += block.SizeFromCapacity(nextHeader.Capacity)
		last, lastHeader = next, nextHeader
	}

	return size, lastHeader.Next, nil
}

func (h *Heap) terminate() error {
	current := h.heapStart
	for current != 0 {
		size, next, err := h.contiguousRun(current)
		if err != nil {
			return err
		}

		memory, err := h.memoryRange(current, size)
		if err != nil {
			return err
		}

		err = h.mapper.Unmap(memory)
		if err != nil {
			h.logger.Error("failed to unmap heap memory, remaining regions are leaked",
				slog.String("Address", fmt.Sprintf("%#x", current)),
				slog.Int("Size", size),
				slog.Any("error", err))

			// Whatever is left of the chain still describes the memory that is mapped
			h.heapStart = current
			return errors.WithSecondaryError(
				errors.Wrapf(memutils.UnmapFailedError, "%d bytes at %#x: %v", size, current, err),
				err)
		}

		h.logger.Debug("  unmapped heap memory",
			slog.String("Address", fmt.Sprintf("%#x", current)),
			slog.Int("Size", size))

		h.forgetRange(current, size)
		current = next
	}

	return nil
}
