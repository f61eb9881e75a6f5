package memutils

import "math"

// Statistics summarizes how much memory a heap has mapped and how much of it is handed out
type Statistics struct {
	// RegionCount is the number of separate OS mappings backing the heap
	RegionCount int
	// BlockCount is the number of blocks, free or allocated, in the heap's chain
	BlockCount int
	// AllocationCount is the number of blocks currently allocated
	AllocationCount int
	// RegionBytes is the total size in bytes of every mapping
	RegionBytes int
	// AllocationBytes is the total capacity in bytes of every allocated block
	AllocationBytes int
	// HeaderBytes is the number of bytes consumed by block headers
	HeaderBytes int
}

func (s *Statistics) Clear() {
	s.RegionCount = 0
	s.BlockCount = 0
	s.AllocationCount = 0
	s.RegionBytes = 0
	s.AllocationBytes = 0
	s.HeaderBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.RegionCount += other.RegionCount
	s.BlockCount += other.BlockCount
	s.AllocationCount += other.AllocationCount
	s.RegionBytes += other.RegionBytes
	s.AllocationBytes += other.AllocationBytes
	s.HeaderBytes += other.HeaderBytes
}

// FreeBytes is the number of content bytes that are not allocated
func (s *Statistics) FreeBytes() int {
	return s.RegionBytes - s.HeaderBytes - s.AllocationBytes
}

type DetailedStatistics struct {
	Statistics
	FreeBlockCount    int
	AllocationSizeMin int
	AllocationSizeMax int
	FreeBlockSizeMin  int
	FreeBlockSizeMax  int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeBlockCount = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.FreeBlockSizeMin = math.MaxInt
	s.FreeBlockSizeMax = 0
}

func (s *DetailedStatistics) AddRegion(size int) {
	s.RegionCount++
	s.RegionBytes += size
}

func (s *DetailedStatistics) AddFreeBlock(capacity int, headerSize int) {
	s.BlockCount++
	s.HeaderBytes += headerSize
	s.FreeBlockCount++

	if capacity < s.FreeBlockSizeMin {
		s.FreeBlockSizeMin = capacity
	}

	if capacity > s.FreeBlockSizeMax {
		s.FreeBlockSizeMax = capacity
	}
}

func (s *DetailedStatistics) AddAllocation(capacity int, headerSize int) {
	s.BlockCount++
	s.HeaderBytes += headerSize
	s.AllocationCount++
	s.AllocationBytes += capacity

	if capacity < s.AllocationSizeMin {
		s.AllocationSizeMin = capacity
	}

	if capacity > s.AllocationSizeMax {
		s.AllocationSizeMax = capacity
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeBlockCount += other.FreeBlockCount

	if other.FreeBlockSizeMin < s.FreeBlockSizeMin {
		s.FreeBlockSizeMin = other.FreeBlockSizeMin
	}

	if other.FreeBlockSizeMax > s.FreeBlockSizeMax {
		s.FreeBlockSizeMax = other.FreeBlockSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}
