package model

import "testing"

func TestAttendancePercentage(t *testing.T) {
	tests := []struct {
		name    string
		present int
		total   int
		want    int
	}{
		{"no records", 0, 0, 0},
		{"all present", 5, 5, 100},
		{"none present", 0, 5, 0},
		{"two thirds rounds up", 2, 3, 67},
		{"one third rounds down", 1, 3, 33},
		{"exact half", 1, 2, 50},
		{"rounds half up", 1, 8, 13}, // 12.5 -> 13
		{"negative total", 0, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttendancePercentage(tt.present, tt.total); got != tt.want {
				t.Errorf("AttendancePercentage(%d, %d) = %d, want %d", tt.present, tt.total, got, tt.want)
			}
		})
	}
}

func TestIsValidAttendanceStatus(t *testing.T) {
	for _, s := range []string{AttendancePresent, AttendanceAbsent, AttendanceLate} {
		if !IsValidAttendanceStatus(s) {
			t.Errorf("IsValidAttendanceStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "PRESENT", "here", "true"} {
		if IsValidAttendanceStatus(s) {
			t.Errorf("IsValidAttendanceStatus(%q) = true, want false", s)
		}
	}
}
