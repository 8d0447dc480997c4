package file_allocation_demo

import "github.com/pkg/errors"

// ProcessSpec is the initial state of a process.
type ProcessSpec struct {
	ID       ProcessID
	Priority int
	Quota    int
}

// Process is a process of the workload. Priority 0 is administrative, any other
// priority restricts deletions to the files the process created. Quota is the
// number of operations the process may still attempt.
type Process struct {
	ID        ProcessID
	Priority  int
	Quota     int
	Attempted int
}

func (p *Process) IsAdmin() bool {
	return p.Priority == 0
}

func (p *Process) canDelete(b *Block) bool {
	return p.IsAdmin() || b.CreatedBy == p.ID
}

// ProcessTable tracks the remaining quota of every process.
type ProcessTable struct {
	procs map[ProcessID]*Process
	order []ProcessID
}

func NewProcessTable(specs []ProcessSpec) (*ProcessTable, error) {
	t := &ProcessTable{procs: make(map[ProcessID]*Process, len(specs))}
	for _, s := range specs {
		if _, ok := t.procs[s.ID]; ok {
			return nil, errors.Wrapf(ErrInvalidRequest, "duplicate process %d", s.ID)
		}
		if s.ID == AdminProcess {
			return nil, errors.Wrapf(ErrInvalidRequest, "process id %d is reserved", s.ID)
		}
		t.procs[s.ID] = &Process{ID: s.ID, Priority: s.Priority, Quota: s.Quota}
		t.order = append(t.order, s.ID)
	}
	return t, nil
}

// Get returns a copy of the process with the given id.
func (t *ProcessTable) Get(id ProcessID) (Process, bool) {
	p, ok := t.procs[id]
	if !ok {
		return Process{}, false
	}
	return *p, true
}

// Processes returns a copy of every process in input order.
func (t *ProcessTable) Processes() []Process {
	ret := make([]Process, 0, len(t.order))
	for _, id := range t.order {
		ret = append(ret, *t.procs[id])
	}
	return ret
}

// acquire resolves the acting process of an operation and charges one unit of
// its quota. The charge is not refunded when the operation fails.
func (t *ProcessTable) acquire(id ProcessID) (*Process, error) {
	p, ok := t.procs[id]
	if !ok {
		return nil, errors.Wrapf(ErrProcessNotFound, "process %d", id)
	}
	if p.Quota <= 0 {
		return nil, errors.Wrapf(ErrProcessQuotaExhausted, "process %d", id)
	}
	p.Quota--
	p.Attempted++
	return p, nil
}
