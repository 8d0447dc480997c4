package file_allocation_demo

const (
	// linkedOverheadDivisor reserves one extra block per started ten blocks of
	// a linked file for chain bookkeeping.
	linkedOverheadDivisor = 10
)

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// linkedBlockCnt returns the number of blocks a linked file of size blocks
// occupies.
func linkedBlockCnt(size int) int {
	return size + ceilDiv(size, linkedOverheadDivisor)
}

// indexedBlockCnt returns the number of blocks an indexed file of size blocks
// occupies, including its index block.
func indexedBlockCnt(size int) int {
	return size + 1
}
