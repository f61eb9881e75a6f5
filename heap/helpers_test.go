package heap

import (
	"io"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/mheap/memutils/block"
	"github.com/vkngwrapper/mheap/memutils/region"
	"golang.org/x/exp/slog"
)

const testPageSize = 4096

// arenaMapper hands out consecutive slices of one large Go allocation, so region placement is
// deterministic. A fixed placement succeeds only at the arena's next free address.
type arenaMapper struct {
	arena  []byte
	offset int

	// refuseFixed rejects every fixed placement
	refuseFixed bool
	// gap leaves a page unused before every mapping placed anywhere, so it never touches the
	// previous one
	gap bool

	unmapped [][]byte
}

var _ region.PageMapper = &arenaMapper{}

func newArenaMapper(pages int) *arenaMapper {
	return &arenaMapper{arena: make([]byte, pages*testPageSize)}
}

func (m *arenaMapper) PageSize() int { return testPageSize }

func (m *arenaMapper) next() uintptr {
	return region.Address(m.arena) + uintptr(m.offset)
}

func (m *arenaMapper) Map(hint uintptr, length int, placement region.Placement) ([]byte, error) {
	switch placement {
	case region.PlacementFixedNoReplace:
		if m.refuseFixed || hint != m.next() {
			return nil, syscall.EEXIST
		}
	case region.PlacementAnywhere:
		if m.gap {
			m.offset += testPageSize
		}
	}

	if m.offset+length > len(m.arena) {
		return nil, syscall.ENOMEM
	}

	memory := m.arena[m.offset : m.offset+length : m.offset+length]
	m.offset += length
	return memory, nil
}

func (m *arenaMapper) Unmap(memory []byte) error {
	m.unmapped = append(m.unmapped, memory)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func readyArenaHeap(t *testing.T, mapper *arenaMapper, initialSize int) *Heap {
	h := New(testLogger(), CreateOptions{Mapper: mapper})
	_, err := h.Init(initialSize)
	require.NoError(t, err)
	return h
}

func requireHeader(t *testing.T, h *Heap, addr uintptr) block.Header {
	header, err := h.readHeader(addr)
	require.NoError(t, err)
	return header
}

// scriptedMapper refuses every fixed placement and places each mapping at the next page index
// from pages, regardless of the hint
type scriptedMapper struct {
	arena []byte
	pages []int

	unmapped [][]byte
}

var _ region.PageMapper = &scriptedMapper{}

func (m *scriptedMapper) PageSize() int { return testPageSize }

func (m *scriptedMapper) Map(hint uintptr, length int, placement region.Placement) ([]byte, error) {
	if placement == region.PlacementFixedNoReplace {
		return nil, syscall.EEXIST
	}
	if len(m.pages) == 0 {
		return nil, syscall.ENOMEM
	}

	offset := m.pages[0] * testPageSize
	m.pages = m.pages[1:]
	return m.arena[offset : offset+length : offset+length], nil
}

func (m *scriptedMapper) Unmap(memory []byte) error {
	m.unmapped = append(m.unmapped, memory)
	return nil
}
