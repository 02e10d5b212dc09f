package validate

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		want       string
		wantConf   float64
		wantFormat string
		wantOK     bool
	}{
		{"buddhist year", "15/02/2567", "2024-02-15", 0.95, "DD/MM/YYYY", true},
		{"gregorian year", "15/02/2024", "2024-02-15", 0.95, "DD/MM/YYYY", true},
		{"thai digits", "๑๕/๐๒/๒๕๖๗", "2024-02-15", 0.95, "DD/MM/YYYY", true},
		{"thai month name", "15 กุมภาพันธ์ 2567", "2024-02-15", 0.95, "DD/MM/YYYY", true},
		{"iso order", "2024-02-15", "2024-02-15", 0.85, "YYYY/MM/DD", true},
		{"two digit year", "15/02/24", "2024-02-15", 0.85, "DD/MM/YY", true},
		{"year 1900 is valid", "01/01/1900", "1900-01-01", 0.95, "DD/MM/YYYY", true},
		{"year 1899 is not", "31/12/1899", "", 0, "", false},
		{"impossible day", "30/02/2024", "", 0, "", false},
		{"not a date", "hello", "", 0, "", false},
		{"empty", "", "", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, conf, format, ok := NormalizeDate(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeDate(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("normalized = %q, want %q", got, tt.want)
			}
			if conf != tt.wantConf {
				t.Errorf("confidence = %v, want %v", conf, tt.wantConf)
			}
			if format != tt.wantFormat {
				t.Errorf("format = %q, want %q", format, tt.wantFormat)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	past := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	if ok, _, _ := ValidateDate(past, now); !ok {
		t.Error("past date rejected")
	}

	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if ok, _, msg := ValidateDate(future, now); ok || msg == "" {
		t.Error("future date accepted")
	}

	ancient := time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC)
	if ok, _, _ := ValidateDate(ancient, now); ok {
		t.Error("pre-1900 date accepted")
	}

	// 1900 itself is the boundary and passes.
	boundary := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	if ok, _, _ := ValidateDate(boundary, now); !ok {
		t.Error("1900 date rejected")
	}
}

func TestBuddhistToGregorian(t *testing.T) {
	tests := []struct{ in, want int }{
		{2567, 2024},
		{2500, 2500 - 543},
		{2024, 2024},
		{1999, 1999},
	}
	for _, tt := range tests {
		if got := BuddhistToGregorian(tt.in); got != tt.want {
			t.Errorf("BuddhistToGregorian(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
