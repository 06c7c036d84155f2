package ratelimit

import "testing"

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0.001) {
			t.Fatalf("call %d should pass within burst", i)
		}
	}
	if l.Allow("k", 3, 0.001) {
		t.Fatal("burst exhausted, call should be denied")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0.001) {
		t.Fatal("first call for a should pass")
	}
	if l.Allow("a", 1, 0.001) {
		t.Fatal("a is exhausted")
	}
	if !l.Allow("b", 1, 0.001) {
		t.Fatal("b has its own bucket")
	}
}
