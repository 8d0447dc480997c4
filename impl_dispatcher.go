package file_allocation_demo

import (
	"fmt"

	"github.com/pkg/errors"
)

// OperationKind is the code of an operation in the workload.
type OperationKind int

const (
	OpCreate OperationKind = 0
	OpDelete OperationKind = 1
)

func (k OperationKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Operation is a single request of the workload. Size is only used by creates.
type Operation struct {
	ProcessID ProcessID
	Kind      OperationKind
	FileName  string
	Size      int
}

// Result is the outcome of the operation at Index (0-based) of the workload.
type Result struct {
	Index    int
	Op       Operation
	Success  bool
	Message  string
	Err      error
	Snapshot []string
}

// DiskConfig describes the disk a Simulator starts from.
type DiskConfig struct {
	Strategy   AllocationStrategy
	BlockCount int
	Preload    []PreloadedFile
}

func allocatorFor(s AllocationStrategy) (allocator, error) {
	switch s {
	case Contiguous:
		return contiguousAllocator{}, nil
	case Linked:
		return linkedAllocator{}, nil
	case Indexed:
		return indexedAllocator{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownAllocationStrategy, "strategy code %d", int(s))
	}
}

// Simulator applies operations one by one to a disk and a process table it
// owns exclusively. It is not safe for concurrent use.
type Simulator struct {
	strategy  AllocationStrategy
	alloc     allocator
	disk      *Disk
	processes *ProcessTable
	observers []Observer
	applied   int
}

// NewSimulator builds the initial disk and process table. Any error returned
// here means the run has no valid starting state.
func NewSimulator(cfg DiskConfig, procs []ProcessSpec, observers ...Observer) (*Simulator, error) {
	alloc, err := allocatorFor(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	disk, err := NewDisk(cfg.BlockCount, cfg.Preload)
	if err != nil {
		return nil, err
	}
	table, err := NewProcessTable(procs)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		strategy:  cfg.Strategy,
		alloc:     alloc,
		disk:      disk,
		processes: table,
		observers: observers,
	}, nil
}

func (s *Simulator) Strategy() AllocationStrategy {
	return s.strategy
}

func (s *Simulator) Disk() *Disk {
	return s.disk
}

func (s *Simulator) Processes() *ProcessTable {
	return s.processes
}

// Run applies ops in order and returns one result per operation. A failed
// operation never stops the run.
func (s *Simulator) Run(ops []Operation) []Result {
	results := make([]Result, 0, len(ops))
	for _, op := range ops {
		results = append(results, s.Apply(op))
	}
	return results
}

// Apply applies a single operation. Whatever the operation changed before
// failing stays on the disk.
func (s *Simulator) Apply(op Operation) Result {
	r := Result{Index: s.applied, Op: op}
	s.applied++

	if err := s.apply(op); err != nil {
		r.Err = err
		r.Message = err.Error()
	} else {
		r.Success = true
		r.Message = successMessage(op)
	}
	r.Snapshot = s.disk.Snapshot()

	for _, o := range s.observers {
		o.OnResult(r, s.disk)
	}
	return r
}

func (s *Simulator) apply(op Operation) error {
	p, err := s.processes.acquire(op.ProcessID)
	if err != nil {
		return err
	}

	switch op.Kind {
	case OpCreate:
		return s.create(p, op)
	case OpDelete:
		return s.delete(p, op)
	default:
		return errors.Wrapf(ErrUnknownOperationType, "operation code %d", int(op.Kind))
	}
}

func (s *Simulator) create(p *Process, op Operation) error {
	if err := checkFileName(op.FileName); err != nil {
		return err
	}
	if op.Size <= 0 {
		return errors.Wrapf(ErrInvalidRequest, "size should be positive, got: %d", op.Size)
	}
	return s.alloc.create(s.disk, p.ID, op.FileName, op.Size)
}

// delete dispatches on the strategy of the file's first block rather than on
// the disk strategy, since preloaded files are contiguous on every disk.
func (s *Simulator) delete(p *Process, op Operation) error {
	if err := checkFileName(op.FileName); err != nil {
		return err
	}
	head := s.disk.findFile(op.FileName)
	if head == -1 {
		return errors.Wrapf(ErrFileNotFound, "file %s", op.FileName)
	}
	b := &s.disk.blocks[head]
	if !p.canDelete(b) {
		return errors.Wrapf(ErrPermissionDenied, "process %d deleting file %s", p.ID, op.FileName)
	}
	alloc, err := allocatorFor(b.Strategy)
	if err != nil {
		return err
	}
	return alloc.delete(s.disk, head, op.FileName)
}

func successMessage(op Operation) string {
	switch op.Kind {
	case OpCreate:
		return fmt.Sprintf("file %s created by process %d", op.FileName, op.ProcessID)
	default:
		return fmt.Sprintf("file %s deleted by process %d", op.FileName, op.ProcessID)
	}
}
