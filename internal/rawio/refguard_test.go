package rawio

import "testing"

func TestRefGuardReleasesOnce(t *testing.T) {
	count := 0
	g := NewRefGuard(42, func(int) { count++ })

	g.Release()
	g.Release()
	g.Release()

	if count != 1 {
		t.Fatalf("expected release callback exactly once, got %d", count)
	}
}

func TestRefGuardValue(t *testing.T) {
	g := NewRefGuard("hello", nil)
	if g.Value() != "hello" {
		t.Fatalf("expected value 'hello', got %q", g.Value())
	}
	g.Release() // no-op release callback must not panic
}

func TestRefGuardNilReceiverSafe(t *testing.T) {
	var g *RefGuard[int]
	g.Release() // must not panic
}
