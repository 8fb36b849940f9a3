package climate

import "testing"

func TestCodeTableLookup(t *testing.T) {
	table := NewCodeTable()

	tests := []struct {
		name      string
		code      int
		lang      string
		wantLabel string
		wantIcon  string
	}{
		{"clear en", 0, "en", "Clear sky", "01d"},
		{"clear ru", 0, "ru", "Ясно", "01d"},
		{"thunderstorm en", 95, "en", "Thunderstorm", "11d"},
		{"unknown lang falls back to en", 0, "de", "Clear sky", "01d"},
		{"unknown code", 42, "en", "code 42", "01d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Lookup(tt.code, tt.lang)
			if got.Label != tt.wantLabel || got.Icon != tt.wantIcon {
				t.Errorf("Lookup(%d, %q) = %q/%q, want %q/%q",
					tt.code, tt.lang, got.Label, got.Icon, tt.wantLabel, tt.wantIcon)
			}
		})
	}
}
