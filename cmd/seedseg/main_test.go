package main

import "testing"

func TestParseSuffixPair(t *testing.T) {
	tests := []struct {
		in      string
		wantBF  string
		wantFL  string
		wantErr bool
	}{
		{"BF,FL", "BF", "FL", false},
		{"BF, FL", "BF", "FL", false},
		{" bright , fluo ", "bright", "fluo", false},
		{"BF", "", "", true},
		{"BF,", "", "", true},
		{" ,FL", "", "", true},
		{"BF,FL,extra", "", "", true},
	}
	for _, tt := range tests {
		bf, fl, err := parseSuffixPair(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseSuffixPair(%q): expected error, got %q/%q", tt.in, bf, fl)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSuffixPair(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if bf != tt.wantBF || fl != tt.wantFL {
			t.Errorf("parseSuffixPair(%q) = %q/%q, want %q/%q", tt.in, bf, fl, tt.wantBF, tt.wantFL)
		}
	}
}

func TestParseThresholdPair(t *testing.T) {
	tests := []struct {
		in      string
		wantBF  int
		wantFL  int
		wantErr bool
	}{
		{"30,30", 30, 30, false},
		{"60, 45", 60, 45, false},
		{"60", 0, 0, true},
		{"a,b", 0, 0, true},
		{"60,", 0, 0, true},
	}
	for _, tt := range tests {
		bf, fl, err := parseThresholdPair(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseThresholdPair(%q): expected error, got %d/%d", tt.in, bf, fl)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseThresholdPair(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if bf != tt.wantBF || fl != tt.wantFL {
			t.Errorf("parseThresholdPair(%q) = %d/%d, want %d/%d", tt.in, bf, fl, tt.wantBF, tt.wantFL)
		}
	}
}
