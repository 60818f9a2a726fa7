package spl

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-spl/internal/testutil"
)

func BenchmarkMeter_Process(b *testing.B) {
	sizes := []int{256, 1024, 4096}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			meter, err := NewMeter(WithBlockSize(size))
			if err != nil {
				b.Fatalf("NewMeter: %v", err)
			}

			buf := testutil.ADCSine(1000, 16000, 2048, 500, size)
			b.SetBytes(int64(size * 4))
			b.ResetTimer()

			for range b.N {
				if err := meter.Process(buf); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
