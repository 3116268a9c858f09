package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"daylog/internal/day"
)

func BenchmarkAdd(b *testing.B) {
	store := createBenchStorage(b, 0)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Add(ctx, testUser, EntryInput{Date: "2024-01-01", Note: fmt.Sprintf("Entry %d", i)}); err != nil {
			b.Fatalf("Add failed: %v", err)
		}
	}
}

// BenchmarkFetchAll measures loading with varying history sizes.
func BenchmarkFetchAll(b *testing.B) {
	for _, size := range []int{10, 365, 3650} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			store := createBenchStorage(b, size)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.FetchAll(ctx, testUser); err != nil {
					b.Fatalf("FetchAll failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkFetchByMonth(b *testing.B) {
	store := createBenchStorage(b, 3650)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.FetchByMonth(ctx, testUser, 2020, time.June); err != nil {
			b.Fatalf("FetchByMonth failed: %v", err)
		}
	}
}

// createBenchStorage returns a store holding n consecutive daily entries
// starting 2015-01-01.
func createBenchStorage(b *testing.B, n int) *Storage {
	b.Helper()
	store, err := New(b.TempDir())
	if err != nil {
		b.Fatalf("failed to create storage: %v", err)
	}

	start := day.New(2015, time.January, 1)
	inputs := make([]EntryInput, n)
	for i := range inputs {
		inputs[i] = EntryInput{Date: start.Add(i).String(), Note: fmt.Sprintf("Day %d", i)}
	}
	if _, err := store.AddMany(context.Background(), testUser, inputs); err != nil {
		b.Fatalf("seed: %v", err)
	}
	return store
}
