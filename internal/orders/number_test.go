package orders

import (
	"strings"
	"testing"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	number := GenerateOrderNumber()

	if !strings.HasPrefix(number, "ORD-") {
		t.Fatalf("missing prefix: %s", number)
	}

	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d: %s", len(parts), number)
	}
	if len(parts[2]) != 9 {
		t.Fatalf("expected 9-char suffix, got %q", parts[2])
	}
	if parts[2] != strings.ToUpper(parts[2]) {
		t.Fatalf("suffix not uppercase: %q", parts[2])
	}
}

func TestGenerateOrderNumberVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		number := GenerateOrderNumber()
		if seen[number] {
			t.Fatalf("duplicate order number: %s", number)
		}
		seen[number] = true
	}
}
