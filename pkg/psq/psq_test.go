package psq

import "testing"

func lessByPriority(a, b Item[string, int]) bool { return a.Priority < b.Priority }

func TestInsertAndMin(t *testing.T) {
	q := New[string, int](lessByPriority)
	q.Insert("a", 30, 1)
	q.Insert("b", 10, 2)
	q.Insert("c", 20, 3)

	min, ok := q.Min()
	if !ok || min.Key != "b" {
		t.Fatalf("Min() = %+v, ok=%v; want key b", min, ok)
	}
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
}

func TestLookup(t *testing.T) {
	q := New[string, int](lessByPriority)
	q.Insert("a", 5, 42)
	it, ok := q.Lookup("a")
	if !ok || it.Value != 42 {
		t.Fatalf("Lookup(a) = %+v, ok=%v", it, ok)
	}
	if _, ok := q.Lookup("missing"); ok {
		t.Fatal("Lookup(missing) should report false")
	}
}

func TestInsertReplacesExisting(t *testing.T) {
	q := New[string, int](lessByPriority)
	q.Insert("a", 100, 1)
	q.Insert("a", 5, 2)
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after re-insert of same key", q.Len())
	}
	min, ok := q.Min()
	if !ok || min.Key != "a" || min.Priority != 5 || min.Value != 2 {
		t.Fatalf("Min() = %+v, want updated priority/value", min)
	}
}

func TestPopMinOrdering(t *testing.T) {
	q := New[string, int](lessByPriority)
	entries := map[string]int64{"a": 5, "b": 1, "c": 3, "d": 4, "e": 2}
	for k, p := range entries {
		q.Insert(k, p, 0)
	}

	var got []int64
	for q.Len() > 0 {
		it, ok := q.PopMin()
		if !ok {
			t.Fatal("PopMin() unexpectedly reported false")
		}
		got = append(got, it.Priority)
	}
	want := []int64{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDelete(t *testing.T) {
	q := New[string, int](lessByPriority)
	q.Insert("a", 1, 1)
	q.Insert("b", 2, 2)
	it, ok := q.Delete("a")
	if !ok || it.Value != 1 {
		t.Fatalf("Delete(a) = %+v, ok=%v", it, ok)
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
	if _, ok := q.Lookup("a"); ok {
		t.Fatal("a should no longer be present after Delete")
	}
	min, ok := q.Min()
	if !ok || min.Key != "b" {
		t.Fatalf("Min() = %+v, want b", min)
	}
}

func TestDeleteMissing(t *testing.T) {
	q := New[string, int](lessByPriority)
	if _, ok := q.Delete("missing"); ok {
		t.Fatal("Delete(missing) should report false")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	q := New[string, int](lessByPriority)
	q.Insert("a", 1, 1)
	clone := q.Clone()

	clone.Insert("b", 2, 2)
	if q.Len() != 1 {
		t.Fatalf("original Len() = %d, want 1 (unaffected by clone mutation)", q.Len())
	}
	if clone.Len() != 2 {
		t.Fatalf("clone Len() = %d, want 2", clone.Len())
	}

	clone.Delete("a")
	if _, ok := q.Lookup("a"); !ok {
		t.Fatal("deleting from clone should not affect original")
	}
}

func TestEachVisitsAll(t *testing.T) {
	q := New[string, int](lessByPriority)
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		q.Insert(k, int64(v), v)
	}
	got := make(map[string]int)
	q.Each(func(it Item[string, int]) { got[it.Key] = it.Value })
	if len(got) != len(want) {
		t.Fatalf("Each visited %d entries, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("entry %s = %d, want %d", k, got[k], v)
		}
	}
}

func TestEmptyQueue(t *testing.T) {
	q := New[string, int](lessByPriority)
	if _, ok := q.Min(); ok {
		t.Fatal("Min() on empty queue should report false")
	}
	if _, ok := q.PopMin(); ok {
		t.Fatal("PopMin() on empty queue should report false")
	}
}
