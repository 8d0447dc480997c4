package file_allocation_demo

import (
	"fmt"
	"strconv"
)

// ProcessID identifies a process of the workload.
type ProcessID int

const (
	// AdminProcess is the creator recorded on preloaded files. Only
	// administrative processes may delete them.
	AdminProcess ProcessID = -1

	// noBlock terminates a linked chain.
	noBlock = -1

	freeBlockName = "0"
	indexMarker   = "I"
)

// Block is the atomic unit of the simulated disk. The zero value is a free
// block.
type Block struct {
	// Owner is the name of the owning file, empty when the block is free.
	Owner     string
	Strategy  AllocationStrategy
	CreatedBy ProcessID

	// Next is the following block of a linked file, noBlock for the last one.
	Next int

	// IsIndex marks the index block of an indexed file. Entries lists its data
	// blocks in allocation order.
	IsIndex bool
	Entries []int
}

func (b *Block) IsFree() bool {
	return b.Owner == ""
}

// DisplayName is the name shown in disk snapshots: "0" for a free block and
// the file name suffixed with the index marker for an index block.
func (b *Block) DisplayName() string {
	if b.IsFree() {
		return freeBlockName
	}
	if b.IsIndex {
		return b.Owner + indexMarker
	}
	return b.Owner
}

func (b *Block) String() string {
	switch {
	case b.IsFree():
		return freeBlockName
	case b.IsIndex:
		return fmt.Sprintf("%s%v", b.DisplayName(), b.Entries)
	case b.Strategy == Linked:
		if b.Next == noBlock {
			return b.Owner + "->nil"
		}
		return b.Owner + "->" + strconv.Itoa(b.Next)
	default:
		return b.Owner
	}
}

func contiguousBlock(name string, pid ProcessID) Block {
	return Block{Owner: name, Strategy: Contiguous, CreatedBy: pid, Next: noBlock}
}

func linkedBlock(name string, pid ProcessID, next int) Block {
	return Block{Owner: name, Strategy: Linked, CreatedBy: pid, Next: next}
}

func indexBlock(name string, pid ProcessID) Block {
	return Block{
		Owner:     name,
		Strategy:  Indexed,
		CreatedBy: pid,
		Next:      noBlock,
		IsIndex:   true,
		Entries:   []int{},
	}
}

func indexedDataBlock(name string, pid ProcessID) Block {
	return Block{Owner: name, Strategy: Indexed, CreatedBy: pid, Next: noBlock}
}
