package haplotype

import (
	"reflect"
	"testing"
)

func TestStore_Add_merge(t *testing.T) {
	s := NewStore()
	defer s.Destroy()

	if err := s.Add([]byte("AC--T"), 0, 4, 1); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add([]byte("-CG-T"), 0, 4, 2); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	frags := s.Fragments()
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1 merged", len(frags))
	}

	f := frags[0]
	if string(f.Bases) != "ACG-T" {
		t.Errorf("merged bases = %q, want %q", f.Bases, "ACG-T")
	}
	if want := []int{1, 2, 1, 0, 2}; !reflect.DeepEqual(f.Depth, want) {
		t.Errorf("merged depth = %v, want %v", f.Depth, want)
	}
	if f.NSeq != 2 {
		t.Errorf("NSeq = %d, want 2", f.NSeq)
	}
	if want := []Rec{1, 2}; !reflect.DeepEqual(f.Recs, want) {
		t.Errorf("Recs = %v, want %v", f.Recs, want)
	}
}

func TestStore_Add_conflict(t *testing.T) {
	s := NewStore()
	defer s.Destroy()

	s.Add([]byte("AC--T"), 0, 4, 1)
	s.Add([]byte("AG--T"), 0, 4, 2)

	frags := s.Fragments()
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2: bases conflict at index 1", len(frags))
	}
	for _, f := range frags {
		if f.NSeq != 1 {
			t.Errorf("fragment %v NSeq = %d, want 1", f, f.NSeq)
		}
	}
}

// A contained, non-exact span starts its own fragment: merging is
// restricted to exact span matches.
func TestStore_Add_exactSpanOnly(t *testing.T) {
	s := NewStore()
	defer s.Destroy()

	s.Add([]byte("ACGTA"), 0, 4, 1)
	s.Add([]byte("CG"), 1, 2, 2)

	if got := len(s.Fragments()); got != 2 {
		t.Fatalf("got %d fragments, want 2: contained span must not merge", got)
	}
}

func TestStore_Add_badSpan(t *testing.T) {
	s := NewStore()
	defer s.Destroy()

	if err := s.Add([]byte("ACG"), 0, 4, 1); err == nil {
		t.Error("Add() with short allele string: want error")
	}
	if err := s.Add([]byte("AC"), 3, 2, 1); err == nil {
		t.Error("Add() with inverted span: want error")
	}
}

func TestStore_Filter(t *testing.T) {
	s := NewStore()
	defer s.Destroy()

	s.Add([]byte("AAAA"), 0, 3, 1)
	s.Add([]byte("AAAA"), 0, 3, 2) // merges: count 2
	s.Add([]byte("CCCC"), 0, 3, 3) // conflicts: count 1

	if err := s.Filter(2); err != nil {
		t.Fatalf("Filter() error = %v", err)
	}

	frags := s.Fragments()
	if len(frags) != 1 {
		t.Fatalf("got %d fragments after Filter(2), want 1", len(frags))
	}
	if frags[0].NSeq != 2 {
		t.Errorf("surviving fragment NSeq = %d, want 2", frags[0].NSeq)
	}
	if string(frags[0].Bases) != "AAAA" {
		t.Errorf("surviving fragment bases = %q, want AAAA", frags[0].Bases)
	}
}

func TestStore_Groups_transfersOwnership(t *testing.T) {
	s := NewStore()
	defer s.Destroy()

	s.Add([]byte("AA"), 0, 1, 7, 8)
	groups := s.Groups()
	if len(groups) != 1 || !reflect.DeepEqual(groups[0], []Rec{7, 8}) {
		t.Fatalf("Groups() = %v, want [[7 8]]", groups)
	}
	if again := s.Groups(); len(again) != 1 || again[0] != nil {
		t.Errorf("second Groups() = %v, want the records gone", again)
	}
}
