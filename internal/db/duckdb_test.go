package db

import "testing"

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/home/u/.claude/projects/*/*.jsonl", "'/home/u/.claude/projects/*/*.jsonl'"},
		{"/tmp/o'brien/*.jsonl", "'/tmp/o''brien/*.jsonl'"},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := QuoteLiteral(tt.in); got != tt.want {
			t.Errorf("QuoteLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSharedReturnsOneHandle(t *testing.T) {
	first, err := Shared()
	if err != nil {
		t.Skipf("Skipping test, DuckDB unavailable: %v", err)
	}
	second, _ := Shared()
	if first != second {
		t.Error("Expected the same handle on every call")
	}

	var n int
	if err := first.QueryRow("SELECT json_array_length('[1, 2, 3]')").Scan(&n); err != nil {
		t.Fatalf("json extension query failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3, got %d", n)
	}
}
