// Package block describes the layout of the header that precedes every block of heap memory, and is
// the only place in the module that interprets header bytes or performs arithmetic on block addresses.
//
// A block is a fixed HeaderSize-byte header immediately followed by Capacity bytes of content. Blocks
// are threaded into a singly-linked chain through the header's Next field, which holds the address of
// the following block in heap order. Two blocks are contiguous when the second one starts at After
// the first one.
package block

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is the number of bytes occupied by a block header. The content of a block begins
	// HeaderSize bytes after the block's address, which keeps content on an 8-byte boundary.
	HeaderSize int = 24
	// MinCapacity is the smallest capacity a block may be created with. Allocations are rounded up
	// to it, and a block is only split when the remainder can hold a header plus MinCapacity bytes.
	MinCapacity int = 24
	// ContentAlignment is the alignment of every content address handed out by the heap
	ContentAlignment uint = 8

	nextOffset     = 0
	capacityOffset = 8
	isFreeOffset   = 16
)

// Header is the value form of the bytes stored at the start of a block
type Header struct {
	// Next is the address of the next block in heap order, or 0 at the end of the chain. The block
	// does not own the memory Next points at; the chain threads through regions that may not be
	// contiguous.
	Next uintptr
	// Capacity is the number of usable content bytes, excluding the header
	Capacity int
	IsFree   bool
}

func (h Header) String() string {
	state := "used"
	if h.IsFree {
		state = "free"
	}
	return fmt.Sprintf("{capacity: %d, %s, next: %#x}", h.Capacity, state, h.Next)
}

// SizeFromCapacity is the total size of a block, header included, with the given capacity
func SizeFromCapacity(capacity int) int {
	return capacity + HeaderSize
}

// CapacityFromSize is the capacity of a block whose total size is size
func CapacityFromSize(size int) int {
	return size - HeaderSize
}

// ContentAddress is the address of the first content byte of the block at addr
func ContentAddress(addr uintptr) uintptr {
	return addr + uintptr(HeaderSize)
}

// HeaderAddress recovers the block address from a content address. It is only meaningful for
// content addresses previously produced by ContentAddress.
func HeaderAddress(content uintptr) uintptr {
	return content - uintptr(HeaderSize)
}

// After is the address immediately past the end of the block at addr: the place where the next
// contiguous block, if any, begins
func After(addr uintptr, header Header) uintptr {
	return ContentAddress(addr) + uintptr(header.Capacity)
}

// Continuous reports whether the block at next begins exactly where the block at addr ends
func Continuous(addr uintptr, header Header, next uintptr) bool {
	return next == After(addr, header)
}

// Mergeable reports whether the block at addr can absorb the block at next
func Mergeable(addr uintptr, header Header, next uintptr, nextHeader Header) bool {
	return header.IsFree && nextHeader.IsFree && Continuous(addr, header, next)
}

// Splittable reports whether carving a query-byte block out of this one leaves a remainder that can
// hold a header and MinCapacity bytes of content
func Splittable(header Header, query int) bool {
	return header.IsFree && HeaderSize+query+MinCapacity <= header.Capacity
}

// Read materializes the header stored at offset within memory
func Read(memory []byte, offset int) Header {
	raw := memory[offset : offset+HeaderSize]
	return Header{
		Next:     uintptr(binary.NativeEndian.Uint64(raw[nextOffset:])),
		Capacity: int(binary.NativeEndian.Uint64(raw[capacityOffset:])),
		IsFree:   raw[isFreeOffset] != 0,
	}
}

// Write stores header at offset within memory
func Write(memory []byte, offset int, header Header) {
	raw := memory[offset : offset+HeaderSize]
	binary.NativeEndian.PutUint64(raw[nextOffset:], uint64(header.Next))
	binary.NativeEndian.PutUint64(raw[capacityOffset:], uint64(header.Capacity))

	var isFree byte
	if header.IsFree {
		isFree = 1
	}
	raw[isFreeOffset] = isFree
	clear(raw[isFreeOffset+1:])
}

// Init writes a free block of the given total size at offset within memory
func Init(memory []byte, offset int, size int, next uintptr) Header {
	header := Header{
		Next:     next,
		Capacity: CapacityFromSize(size),
		IsFree:   true,
	}
	Write(memory, offset, header)
	return header
}
