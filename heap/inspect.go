package heap

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/mheap/memutils"
	"github.com/vkngwrapper/mheap/memutils/block"
	"github.com/vkngwrapper/mheap/memutils/region"
)

// Header returns the header of the block that owns ptr, which must have been returned from Allocate
func (h *Heap) Header(ptr Pointer) (block.Header, error) {
	header, err := h.readHeader(block.HeaderAddress(uintptr(ptr)))
	if err != nil {
		return header, errors.Wrapf(memutils.ForeignPointerError, "reading header of %s", ptr)
	}
	return header, nil
}

// Bytes returns the content of the block that owns ptr as a slice. Its length is the block's
// capacity, which may be larger than the size originally requested. The slice must not be used
// after the allocation is released.
func (h *Heap) Bytes(ptr Pointer) ([]byte, error) {
	header, err := h.Header(ptr)
	if err != nil {
		return nil, err
	}

	return h.memoryRange(uintptr(ptr), header.Capacity)
}

// VisitAllBlocks calls the provided callback once for every block in the chain, in heap order. The
// callback receives the block's address, not its content address. Iteration stops at the first
// error, which is returned.
func (h *Heap) VisitAllBlocks(handleBlock func(addr Pointer, header block.Header) error) error {
	if h.heapStart == 0 {
		return nil
	}

	for current := h.heapStart; current != 0; {
		header, err := h.readHeader(current)
		if err != nil {
			return err
		}

		err = handleBlock(Pointer(current), header)
		if err != nil {
			return err
		}

		current = header.Next
	}

	return nil
}

// AddDetailedStatistics sums this heap's regions and blocks into the statistics currently present
// in the provided memutils.DetailedStatistics object. If the chain cannot be walked, stats is left
// unchanged.
func (h *Heap) AddDetailedStatistics(stats *memutils.DetailedStatistics) error {
	var heapStats memutils.DetailedStatistics
	heapStats.Clear()

	h.regions.Iter(func(_ uintptr, r region.Region) bool {
		heapStats.AddRegion(r.Size)
		return false
	})

	err := h.VisitAllBlocks(func(_ Pointer, header block.Header) error {
		if header.IsFree {
			heapStats.AddFreeBlock(header.Capacity, block.HeaderSize)
		} else {
			heapStats.AddAllocation(header.Capacity, block.HeaderSize)
		}
		return nil
	})
	if err != nil {
		return err
	}

	stats.AddDetailedStatistics(&heapStats)
	return nil
}

// PrintDetailedMap writes a JSON description of every region and block in the heap
func (h *Heap) PrintDetailedMap(writer *jwriter.Writer) error {
	var stats memutils.DetailedStatistics
	stats.Clear()
	err := h.AddDetailedStatistics(&stats)
	if err != nil {
		return err
	}

	objState := writer.Object()
	defer objState.End()

	objState.Name("HeapStart").String(h.HeapStart().String())
	objState.Name("TotalBytes").Int(stats.RegionBytes)
	objState.Name("UnusedBytes").Int(stats.FreeBytes())
	objState.Name("Allocations").Int(stats.AllocationCount)
	objState.Name("FreeBlocks").Int(stats.FreeBlockCount)

	regionsState := objState.Name("Regions").Array()
	for _, s := range h.spans {
		regionObj := regionsState.Object()
		regionObj.Name("Address").String(fmt.Sprintf("%#x", s.address))
		regionObj.Name("Size").Int(len(s.memory))
		regionObj.End()
	}
	regionsState.End()

	blocksState := objState.Name("Blocks").Array()
	defer blocksState.End()

	return h.VisitAllBlocks(func(addr Pointer, header block.Header) error {
		obj := blocksState.Object()
		defer obj.End()

		obj.Name("Address").String(addr.String())
		obj.Name("Free").Bool(header.IsFree)
		obj.Name("Capacity").Int(header.Capacity)
		return nil
	})
}
