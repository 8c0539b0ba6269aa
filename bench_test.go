package skiplist

import "testing"

// Grounded on the teacher's bench_test.go/compare_bench_test.go shape:
// one Insert benchmark and one parallel Contains benchmark per variant, so
// the three concurrency strategies can be compared directly.

func BenchmarkCoarse_Insert(b *testing.B) {
	l := NewCoarse()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Insert(i, i)
	}
}

func BenchmarkFineGrained_Insert(b *testing.B) {
	l := NewFineGrained()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Insert(i, i)
	}
}

func BenchmarkLockFree_Insert(b *testing.B) {
	l := NewLockFree()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Insert(i, i)
	}
}

func BenchmarkCoarse_ContainsParallel(b *testing.B) {
	l := NewCoarse()
	for i := 0; i < 10000; i++ {
		l.Insert(i, i)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			l.Contains(i % 10000)
			i++
		}
	})
}

func BenchmarkFineGrained_ContainsParallel(b *testing.B) {
	l := NewFineGrained()
	for i := 0; i < 10000; i++ {
		l.Insert(i, i)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			l.Contains(i % 10000)
			i++
		}
	})
}

func BenchmarkLockFree_ContainsParallel(b *testing.B) {
	l := NewLockFree()
	for i := 0; i < 10000; i++ {
		l.Insert(i, i)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			l.Contains(i % 10000)
			i++
		}
	})
}
