package random

import "testing"

func TestSourcesAreIndependent(t *testing.T) {
	a, b := Source(), Source()
	same := 0
	for i := 0; i < 8; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same == 8 {
		t.Fatal("two sources produced the same stream")
	}
}
