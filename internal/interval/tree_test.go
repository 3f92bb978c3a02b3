package interval

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
)

type span struct{ start, end int }

func bruteCount(spans []span, start, end int) int {
	c := 0
	for _, s := range spans {
		if s.start <= end && s.end >= start {
			c++
		}
	}
	return c
}

func TestTree_Add_Query(t *testing.T) {
	tr := New()
	for _, s := range []span{{1, 5}, {3, 8}, {10, 12}} {
		tr.Add(s.start, s.end, nil)
	}

	tests := []struct {
		name       string
		start, end int
		want       []span
	}{
		{"overlaps two", 4, 6, []span{{1, 5}, {3, 8}}},
		{"gap", 9, 9, nil},
		{"point on boundary", 10, 10, []span{{10, 12}}},
		{"everything", math.MinInt, math.MaxInt, []span{{1, 5}, {3, 8}, {10, 12}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []span
			count, err := tr.Query(tt.start, tt.end, func(iv *Interval) (bool, error) {
				got = append(got, span{iv.Start, iv.End})
				return true, nil
			})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if count != len(tt.want) {
				t.Errorf("Query() count = %d, want %d", count, len(tt.want))
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Query() yielded %v, want %v", got, tt.want)
			}
			for _, w := range tt.want {
				found := false
				for _, g := range got {
					if g == w {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("Query() missing %v in %v", w, got)
				}
			}
		})
	}
}

func TestTree_Query_random(t *testing.T) {
	const (
		nItems = 2000
		rLen   = 100000
		sLen   = 50
	)

	rng := rand.New(rand.NewSource(1))
	tr := New()
	var spans []span
	for i := 0; i < nItems; i++ {
		x1 := rng.Intn(rLen)
		x2 := x1 + rng.Intn(sLen)
		tr.Add(x1, x2, nil)
		spans = append(spans, span{x1, x2})
	}

	if err := tr.Check(); err != nil {
		t.Fatalf("Check() after adds: %v", err)
	}
	if tr.Len() != nItems {
		t.Fatalf("Len() = %d, want %d", tr.Len(), nItems)
	}

	for i := 0; i < 500; i++ {
		st := rng.Intn(rLen)
		en := st + rng.Intn(sLen*10)

		want := bruteCount(spans, st, en)
		got, err := tr.Query(st, en, nil)
		if err != nil {
			t.Fatalf("Query(%d, %d) error = %v", st, en, err)
		}
		if got != want {
			t.Fatalf("Query(%d, %d) = %d, brute force = %d", st, en, got, want)
		}
	}
}

func TestTree_Query_callbackContract(t *testing.T) {
	tr := New()
	for i := 0; i < 10; i++ {
		tr.Add(i, i+5, i)
	}

	t.Run("stop keeps count", func(t *testing.T) {
		calls := 0
		count, err := tr.Query(0, 20, func(iv *Interval) (bool, error) {
			calls++
			return calls < 3, nil
		})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if calls != 3 {
			t.Errorf("callback ran %d times, want 3", calls)
		}
		if count != 3 {
			t.Errorf("Query() count = %d, want 3", count)
		}
	})

	t.Run("error aborts", func(t *testing.T) {
		bad := errors.New("bad payload")
		_, err := tr.Query(0, 20, func(iv *Interval) (bool, error) {
			if iv.Data.(int) >= 5 {
				return false, bad
			}
			return true, nil
		})
		if !errors.Is(err, bad) {
			t.Errorf("Query() error = %v, want %v", err, bad)
		}
	})
}

func TestTree_Delete(t *testing.T) {
	tr := New()
	a := tr.Add(1, 5, "a")
	b := tr.Add(1, 9, "b") // packed on the same node as a
	c := tr.Add(3, 4, "c")

	if err := tr.Delete(b); err != nil {
		t.Fatalf("Delete(b) error = %v", err)
	}
	if err := tr.Check(); err != nil {
		t.Fatalf("Check() after packed delete: %v", err)
	}
	if n, _ := tr.Query(6, 9, nil); n != 0 {
		t.Errorf("Query(6,9) = %d after deleting the only interval reaching 9", n)
	}

	if err := tr.Delete(c); err != nil {
		t.Fatalf("Delete(c) error = %v", err)
	}
	if err := tr.Delete(a); err != nil {
		t.Fatalf("Delete(a) error = %v", err)
	}
	if tr.Len() != 0 {
		t.Errorf("Len() = %d after deleting everything", tr.Len())
	}

	if err := tr.Delete(a); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(a) again = %v, want ErrNotFound", err)
	}
}

func TestTree_augmentation_random(t *testing.T) {
	const nItems = 500

	rng := rand.New(rand.NewSource(7))
	tr := New()
	var live []*Interval

	for round := 0; round < 4; round++ {
		for i := 0; i < nItems; i++ {
			x1 := rng.Intn(10000)
			live = append(live, tr.Add(x1, x1+rng.Intn(40), nil))
		}
		if err := tr.Check(); err != nil {
			t.Fatalf("round %d: Check() after adds: %v", round, err)
		}

		// delete a random half, re-validating as we go
		rng.Shuffle(len(live), func(i, j int) { live[i], live[j] = live[j], live[i] })
		half := len(live) / 2
		for i, iv := range live[:half] {
			if err := tr.Delete(iv); err != nil {
				t.Fatalf("round %d: Delete() error = %v", round, err)
			}
			if i%97 == 0 {
				if err := tr.Check(); err != nil {
					t.Fatalf("round %d: Check() mid-delete: %v", round, err)
				}
			}
		}
		live = live[half:]

		if err := tr.Check(); err != nil {
			t.Fatalf("round %d: Check() after deletes: %v", round, err)
		}
		if tr.Len() != len(live) {
			t.Fatalf("round %d: Len() = %d, want %d", round, tr.Len(), len(live))
		}
	}
}

func TestTree_Destroy(t *testing.T) {
	tr := New()
	for i := 0; i < 20; i++ {
		tr.Add(i, i+3, fmt.Sprintf("payload-%d", i))
	}

	cleaned := 0
	tr.Destroy(func(data interface{}) {
		cleaned++
	})
	if cleaned != 20 {
		t.Errorf("cleanup ran %d times, want 20", cleaned)
	}
	if tr.Len() != 0 {
		t.Errorf("Len() = %d after Destroy", tr.Len())
	}

	// the tree is reusable after teardown
	tr.Add(1, 2, nil)
	if n, _ := tr.Query(0, 5, nil); n != 1 {
		t.Errorf("Query() = %d on reused tree, want 1", n)
	}
}
