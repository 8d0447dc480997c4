package file_allocation_demo

import "errors"

// AllocationStrategy decides the physical layout of every file created on a
// disk. It is fixed for the whole run.
type AllocationStrategy int

// The numeric values are the strategy codes of the workload text format.
const (
	Contiguous AllocationStrategy = 1
	Linked     AllocationStrategy = 2
	Indexed    AllocationStrategy = 3
)

func (s AllocationStrategy) String() string {
	switch s {
	case Contiguous:
		return "contiguous"
	case Linked:
		return "linked"
	case Indexed:
		return "indexed"
	default:
		return "unknown"
	}
}

var (
	ErrProcessNotFound             = errors.New("process not found")
	ErrProcessQuotaExhausted       = errors.New("process quota exhausted")
	ErrUnknownOperationType        = errors.New("unknown operation type")
	ErrInsufficientContiguousSpace = errors.New("insufficient contiguous space")
	ErrInsufficientSpace           = errors.New("insufficient space")
	ErrFileNotFound                = errors.New("file not found")
	ErrNotAnIndexBlock             = errors.New("not an index block")
	ErrMissingIndexEntries         = errors.New("index block has no entry list")
	ErrIndexCorruption             = errors.New("index corruption")
	ErrChainCorruption             = errors.New("linked chain corruption")
	ErrPermissionDenied            = errors.New("permission denied")
	ErrOutOfSpace                  = errors.New("out of space")
	ErrUnknownAllocationStrategy   = errors.New("unknown allocation strategy")
	ErrInvalidRequest              = errors.New("invalid request")
)

// allocator lays files out on a Disk using one allocation strategy.
type allocator interface {
	// create allocates size blocks (plus any strategy overhead) for a new file
	// owned by pid.
	//
	// If there is not enough free space it returns ErrInsufficientSpace or
	// ErrInsufficientContiguousSpace and leaves the disk untouched.
	create(d *Disk, pid ProcessID, name string, size int) error
	// delete frees every block of the file whose first block is at head.
	delete(d *Disk, head int, name string) error
}

// Observer receives the outcome of every operation together with the disk
// state right after it.
type Observer interface {
	OnResult(r Result, d *Disk)
}

var errorClasses = []struct {
	err   error
	class string
}{
	{ErrProcessNotFound, "ProcessNotFound"},
	{ErrProcessQuotaExhausted, "ProcessQuotaExhausted"},
	{ErrUnknownOperationType, "UnknownOperationType"},
	{ErrInsufficientContiguousSpace, "InsufficientContiguousSpace"},
	{ErrInsufficientSpace, "InsufficientSpace"},
	{ErrFileNotFound, "FileNotFound"},
	{ErrNotAnIndexBlock, "NotAnIndexBlock"},
	{ErrMissingIndexEntries, "MissingIndexEntries"},
	{ErrIndexCorruption, "IndexCorruption"},
	{ErrChainCorruption, "ChainCorruption"},
	{ErrPermissionDenied, "PermissionDenied"},
	{ErrOutOfSpace, "OutOfSpace"},
	{ErrUnknownAllocationStrategy, "UnknownAllocationStrategy"},
	{ErrInvalidRequest, "InvalidRequest"},
}

// ErrorClass names the kind of err, "" for nil and "Unknown" for an error that
// does not wrap any error of this package.
func ErrorClass(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return c.class
		}
	}
	return "Unknown"
}
