//go:build unix && !linux

package region

// Only Linux offers a fixed placement that refuses to replace existing mappings. Everywhere else
// fixed requests are refused up front and the region falls back to a hinted placement.
const (
	fixedNoReplaceSupported = false
	fixedNoReplaceFlag      = 0
)
