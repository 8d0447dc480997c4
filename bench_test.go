package file_allocation_demo

import (
	"fmt"
	"math/rand"
	"testing"
)

func fragmentedDisk(b *testing.B, blockCount int) *Disk {
	d, err := NewDisk(blockCount, nil)
	if err != nil {
		b.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < blockCount; i++ {
		if rnd.Intn(2) == 0 {
			d.blocks[i] = contiguousBlock("X", AdminProcess)
		}
	}
	return d
}

func BenchmarkLoadFreeRuns(b *testing.B) {
	d := fragmentedDisk(b, 64*1024)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		runs := loadFreeRuns(d.blocks)
		if runs.Total() == 0 {
			panic("unexpected")
		}
	}
}

func BenchmarkFirstFit(b *testing.B) {
	runs := fragmentedDisk(b, 64*1024).FreeRuns()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, ok := runs.FirstFit(8); !ok {
			panic("unexpected")
		}
	}
}

func BenchmarkCreateDelete(b *testing.B) {
	allocators := []struct {
		name string
		a    allocator
	}{
		{"contiguous", contiguousAllocator{}},
		{"linked", linkedAllocator{}},
		{"indexed", indexedAllocator{}},
	}
	for _, size := range []int{4, 64} {
		for _, c := range allocators {
			b.Run(fmt.Sprintf("%s/%d", c.name, size), func(b *testing.B) {
				d, err := NewDisk(4096, nil)
				if err != nil {
					b.Fatal(err)
				}
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if err := c.a.create(d, 1, "A", size); err != nil {
						b.Fatal(err)
					}
					if err := c.a.delete(d, d.findFile("A"), "A"); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
