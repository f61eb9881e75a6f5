package region_test

import (
	"io"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/mheap/memutils"
	"github.com/vkngwrapper/mheap/memutils/block"
	"github.com/vkngwrapper/mheap/memutils/region"
	mock_region "github.com/vkngwrapper/mheap/memutils/region/mocks"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

const pageSize = 4096

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestActualSize(t *testing.T) {
	require.Equal(t, 2*pageSize, region.ActualSize(pageSize, 1))
	require.Equal(t, 2*pageSize, region.ActualSize(pageSize, 2*pageSize))
	require.Equal(t, 3*pageSize, region.ActualSize(pageSize, 2*pageSize+1))
	require.Equal(t, 257*pageSize, region.ActualSize(pageSize, block.SizeFromCapacity(1024*1024)))
}

func TestMapAtHint(t *testing.T) {
	ctrl := gomock.NewController(t)
	mapper := mock_region.NewMockPageMapper(ctrl)

	arena := make([]byte, 4*pageSize)
	hint := region.Address(arena)

	mapper.EXPECT().PageSize().Return(pageSize)
	mapper.EXPECT().Map(hint, 2*pageSize, region.PlacementFixedNoReplace).Return(arena[:2*pageSize], nil)

	r, err := region.Map(testLogger(), mapper, hint, 128)
	require.NoError(t, err)
	require.False(t, r.IsInvalid())
	require.True(t, r.Extends)
	require.Equal(t, hint, r.Address)
	require.Equal(t, 2*pageSize, r.Size)
	require.Len(t, r.Memory, 2*pageSize)

	require.Equal(t, block.Header{
		Next:     0,
		Capacity: 2*pageSize - block.HeaderSize,
		IsFree:   true,
	}, block.Read(r.Memory, 0))
}

func TestMapFallsBackToAnywhere(t *testing.T) {
	ctrl := gomock.NewController(t)
	mapper := mock_region.NewMockPageMapper(ctrl)

	arena := make([]byte, 3*pageSize)
	hint := region.HeapStart

	mapper.EXPECT().PageSize().Return(pageSize)
	gomock.InOrder(
		mapper.EXPECT().Map(hint, 3*pageSize, region.PlacementFixedNoReplace).Return(nil, syscall.EEXIST),
		mapper.EXPECT().Map(hint, 3*pageSize, region.PlacementAnywhere).Return(arena, nil),
	)

	r, err := region.Map(testLogger(), mapper, hint, 2*pageSize)
	require.NoError(t, err)
	require.False(t, r.Extends)
	require.Equal(t, region.Address(arena), r.Address)
	require.Equal(t, 3*pageSize-block.HeaderSize, block.Read(r.Memory, 0).Capacity)
}

func TestMapFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mapper := mock_region.NewMockPageMapper(ctrl)

	mapper.EXPECT().PageSize().Return(pageSize)
	mapper.EXPECT().Map(region.HeapStart, 2*pageSize, region.PlacementFixedNoReplace).Return(nil, syscall.EEXIST)
	mapper.EXPECT().Map(region.HeapStart, 2*pageSize, region.PlacementAnywhere).Return(nil, syscall.ENOMEM)

	r, err := region.Map(testLogger(), mapper, region.HeapStart, 0)
	require.ErrorIs(t, err, memutils.MappingFailedError)
	require.True(t, r.IsInvalid())
	require.Equal(t, region.Invalid, r)
}

func TestJoin(t *testing.T) {
	arena := make([]byte, 3*pageSize)
	head := arena[:pageSize]
	tail := arena[pageSize : 3*pageSize]

	joined := region.Join(head, tail)
	require.Len(t, joined, 3*pageSize)
	require.Equal(t, region.Address(arena), region.Address(joined))

	require.Panics(t, func() {
		region.Join(arena[:pageSize], arena[pageSize+8:])
	})
}

func TestPlacementString(t *testing.T) {
	require.Equal(t, "FixedNoReplace", region.PlacementFixedNoReplace.String())
	require.Equal(t, "Anywhere", region.PlacementAnywhere.String())
}
