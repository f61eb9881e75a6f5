package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// MappingFailedError is returned when the operating system refuses a region mapping under every
// placement mode that was attempted
var MappingFailedError error = errors.New("failed to map memory region")

// UnmapFailedError is returned from heap termination when a span of memory could not be returned
// to the operating system. Spans after the failing one are leaked.
var UnmapFailedError error = errors.New("failed to unmap memory region")

// CorruptedHeapError is returned when the block chain is found in a state that should not be
// reachable through the heap's own operations, such as a missing chain root
var CorruptedHeapError error = errors.New("heap block chain is corrupted")

// OutOfMemoryError is returned when a single growth of the heap did not produce a block large enough
// for the request
var OutOfMemoryError error = errors.New("no block large enough for the allocation after growing the heap")

// InvalidSizeError is returned when a negative or unmappably large size is requested
var InvalidSizeError error = errors.New("allocation size is negative or too large")

// ForeignPointerError is returned when a pointer handed to the heap does not lie within any region
// mapped by that heap
var ForeignPointerError error = errors.New("pointer does not belong to this heap")

// AlreadyInitializedError is returned when a heap is initialized twice without being terminated
var AlreadyInitializedError error = errors.New("heap has already been initialized")

// UnsupportedPlatformError is returned by the page mapper on platforms without anonymous mappings
var UnsupportedPlatformError error = errors.New("anonymous page mapping is not supported on this platform")
