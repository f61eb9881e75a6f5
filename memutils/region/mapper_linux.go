package region

import "golang.org/x/sys/unix"

const (
	fixedNoReplaceSupported = true
	fixedNoReplaceFlag      = unix.MAP_FIXED_NOREPLACE
)
