package region

// Placement selects how the operating system may place a new mapping relative to the hint address
type Placement uint32

const (
	// PlacementFixedNoReplace requires the mapping to begin exactly at the hint address, and fails
	// rather than replacing anything already mapped there
	PlacementFixedNoReplace Placement = iota
	// PlacementAnywhere lets the operating system choose the address. The hint may be honored if
	// the address is free, but it is not required to be.
	PlacementAnywhere
)

var placementMapping = map[Placement]string{
	PlacementFixedNoReplace: "FixedNoReplace",
	PlacementAnywhere:       "Anywhere",
}

func (p Placement) String() string {
	return placementMapping[p]
}

// PageMapper is the page-granular virtual memory primitive that regions are carved from. The
// default implementation, returned by NewMapper, maps anonymous private memory through the
// operating system.
type PageMapper interface {
	// PageSize returns the platform page size in bytes. It is queried once, when the mapper is created.
	PageSize() int
	// Map creates a readable and writable anonymous mapping of length bytes and returns its memory.
	// hint is the address the caller would like the mapping to start at, and placement determines
	// how binding that request is.
	Map(hint uintptr, length int, placement Placement) ([]byte, error)
	// Unmap returns memory to the operating system. The slice may cover several mappings as long
	// as they are adjacent.
	Unmap(memory []byte) error
}
