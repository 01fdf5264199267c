package ringbuf

import (
	"testing"
)

func TestPush_BelowCapacity(t *testing.T) {
	b := New[int](4)

	b.Push(1)
	b.Push(2)
	b.Push(3)

	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}
	assertItems(t, b.Items(), []int{1, 2, 3})
}

func TestPush_EvictsOldestWhenFull(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		pushes   []int
		expected []int
	}{
		{
			name:     "exactly full",
			capacity: 3,
			pushes:   []int{1, 2, 3},
			expected: []int{1, 2, 3},
		},
		{
			name:     "one over capacity",
			capacity: 3,
			pushes:   []int{1, 2, 3, 4},
			expected: []int{2, 3, 4},
		},
		{
			name:     "wraps twice",
			capacity: 3,
			pushes:   []int{1, 2, 3, 4, 5, 6, 7},
			expected: []int{5, 6, 7},
		},
		{
			name:     "capacity one",
			capacity: 1,
			pushes:   []int{1, 2, 3},
			expected: []int{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New[int](tt.capacity)
			for _, v := range tt.pushes {
				b.Push(v)
			}
			if b.Len() > b.Cap() {
				t.Fatalf("Len() = %d exceeds Cap() = %d", b.Len(), b.Cap())
			}
			assertItems(t, b.Items(), tt.expected)
		})
	}
}

func TestLast(t *testing.T) {
	b := New[int](5)
	for i := 1; i <= 8; i++ {
		b.Push(i)
	}
	// Buffer now holds 4..8.

	tests := []struct {
		name     string
		n        int
		expected []int
	}{
		{name: "subset", n: 3, expected: []int{6, 7, 8}},
		{name: "all", n: 5, expected: []int{4, 5, 6, 7, 8}},
		{name: "more than held", n: 10, expected: []int{4, 5, 6, 7, 8}},
		{name: "zero", n: 0, expected: nil},
		{name: "negative", n: -1, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertItems(t, b.Last(tt.n), tt.expected)
		})
	}
}

func TestClear(t *testing.T) {
	b := New[string](3)
	b.Push("a")
	b.Push("b")
	b.Push("c")
	b.Push("d")

	b.Clear()

	if b.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", b.Len())
	}
	if b.Cap() != 3 {
		t.Fatalf("Cap() after Clear = %d, want 3", b.Cap())
	}

	b.Push("e")
	assertItems(t, b.Items(), []string{"e"})
}

func TestNew_PanicsOnNonPositiveCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for capacity 0")
		}
	}()
	New[int](0)
}

func assertItems[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("items[%d] = %v, want %v (full: %v vs %v)", i, got[i], want[i], got, want)
		}
	}
}
