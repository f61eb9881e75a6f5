package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint | ~uintptr
}

func CheckPow2[T Number](number T, name string) error {
	if number == 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

// PageCount returns the number of whole pages needed to hold size bytes
func PageCount(size int, pageSize int) int {
	count := size / pageSize
	if size%pageSize > 0 {
		count++
	}
	return count
}

// RoundToPages rounds size up to the nearest multiple of pageSize
func RoundToPages(size int, pageSize int) int {
	return PageCount(size, pageSize) * pageSize
}
