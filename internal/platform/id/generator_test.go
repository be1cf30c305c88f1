package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestTimeOrderedGenerator_Monotonic(t *testing.T) {
	t.Parallel()

	gen := NewTimeOrderedGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	if first.Version() != 7 {
		t.Fatalf("expected version 7, got %d", first.Version())
	}
	if first.String() >= second.String() {
		t.Fatalf("expected ids to increase: %s then %s", first, second)
	}
}

func TestFixed(t *testing.T) {
	t.Parallel()

	want := uuid.MustParse("0190f3a0-0000-7000-8000-000000000001")
	got, _ := Fixed(want).NewID()
	if got != want {
		t.Fatalf("got=%s want=%s", got, want)
	}
}
