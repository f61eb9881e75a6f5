package region_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/mheap/memutils"
	"github.com/vkngwrapper/mheap/memutils/region"
)

func TestUnixMapperRoundTrip(t *testing.T) {
	mapper := region.NewMapper()
	require.NoError(t, memutils.CheckPow2(mapper.PageSize(), "page size"))

	memory, err := mapper.Map(0, 2*mapper.PageSize(), region.PlacementAnywhere)
	require.NoError(t, err)
	require.Len(t, memory, 2*mapper.PageSize())
	require.Zero(t, region.Address(memory)%uintptr(mapper.PageSize()))

	memory[0] = 1
	memory[len(memory)-1] = 2
	require.Equal(t, byte(1), memory[0])

	require.NoError(t, mapper.Unmap(memory))
}

func TestUnixMapperRefusesOccupiedFixedAddress(t *testing.T) {
	mapper := region.NewMapper()
	size := 2 * mapper.PageSize()

	memory, err := mapper.Map(0, size, region.PlacementAnywhere)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, mapper.Unmap(memory))
	}()

	_, err = mapper.Map(region.Address(memory), size, region.PlacementFixedNoReplace)
	require.Error(t, err)
}

func TestMapExtendsAdjacentRegion(t *testing.T) {
	mapper := region.NewMapper()
	pageSize := mapper.PageSize()

	// Reserve a range, then release its upper half so the lower half has a free neighbor
	reserved, err := mapper.Map(0, 4*pageSize, region.PlacementAnywhere)
	require.NoError(t, err)
	require.NoError(t, mapper.Unmap(reserved[2*pageSize:]))
	head := reserved[:2*pageSize]

	hint := region.Address(head) + uintptr(len(head))
	r, err := region.Map(testLogger(), mapper, hint, 0)
	require.NoError(t, err)
	require.True(t, r.Extends)
	require.Equal(t, hint, r.Address)

	require.NoError(t, mapper.Unmap(region.Join(head, r.Memory)))
}
