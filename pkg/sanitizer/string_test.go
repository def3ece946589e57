package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing spaces", "  Stellenbosch Cellars  ", "Stellenbosch Cellars"},
		{"internal whitespace collapsed", "Acme   Mobile\tBottling", "Acme Mobile Bottling"},
		{"already normalized", "Riverside Wines", "Riverside Wines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"uppercase lowered", "Jan@WineFarm.Co.Za", "jan@winefarm.co.za"},
		{"trimmed", "  jan@winefarm.co.za ", "jan@winefarm.co.za"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmail(tt.input); got != tt.expected {
				t.Errorf("NormalizeEmail(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"mixed case", "Screw Cap", "screw cap"},
		{"extra spaces", "  Cross  Flow ", "cross flow"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLabel(tt.input); got != tt.expected {
				t.Errorf("NormalizeLabel(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeLabelIdempotent(t *testing.T) {
	input := "  Natural  Cork "
	once := NormalizeLabel(input)
	twice := NormalizeLabel(once)
	if once != twice {
		t.Errorf("NormalizeLabel not idempotent: %q != %q", once, twice)
	}
}
