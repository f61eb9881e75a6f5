package memutils_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/mheap/memutils"
)

func TestAlignUp(t *testing.T) {
	require.Equal(t, 0, memutils.AlignUp(0, 8))
	require.Equal(t, 8, memutils.AlignUp(1, 8))
	require.Equal(t, 24, memutils.AlignUp(24, 8))
	require.Equal(t, 32, memutils.AlignUp(25, 8))
}

func TestRoundToPages(t *testing.T) {
	require.Equal(t, 0, memutils.PageCount(0, 4096))
	require.Equal(t, 1, memutils.PageCount(1, 4096))
	require.Equal(t, 1, memutils.PageCount(4096, 4096))
	require.Equal(t, 2, memutils.PageCount(4097, 4096))
	require.Equal(t, 8192, memutils.RoundToPages(4097, 4096))
	require.Equal(t, 4096, memutils.RoundToPages(24, 4096))
}

func TestCheckPow2(t *testing.T) {
	require.NoError(t, memutils.CheckPow2(4096, "page size"))
	require.NoError(t, memutils.CheckPow2(uint(1), "one"))

	err := memutils.CheckPow2(4095, "page size")
	require.ErrorIs(t, err, memutils.PowerOfTwoError)
	require.ErrorContains(t, err, "page size is 4095")

	require.ErrorIs(t, memutils.CheckPow2(0, "zero"), memutils.PowerOfTwoError)
}

func TestDetailedStatistics(t *testing.T) {
	var stats memutils.DetailedStatistics
	stats.Clear()

	stats.AddRegion(8192)
	stats.AddAllocation(128, 24)
	stats.AddAllocation(64, 24)
	stats.AddFreeBlock(7928, 24)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			RegionCount:     1,
			BlockCount:      3,
			AllocationCount: 2,
			RegionBytes:     8192,
			AllocationBytes: 192,
			HeaderBytes:     72,
		},
		FreeBlockCount:    1,
		AllocationSizeMin: 64,
		AllocationSizeMax: 128,
		FreeBlockSizeMin:  7928,
		FreeBlockSizeMax:  7928,
	}, stats)
	require.Equal(t, 7928, stats.FreeBytes())

	var total memutils.DetailedStatistics
	total.Clear()
	total.AddDetailedStatistics(&stats)
	total.AddDetailedStatistics(&stats)
	require.Equal(t, 2, total.RegionCount)
	require.Equal(t, 64, total.AllocationSizeMin)
	require.Equal(t, 15856, total.FreeBytes())
}
