package model

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeAnnouncementWindowSameDay(t *testing.T) {
	// Same calendar date in either order is widened to span the whole day.
	morning := time.Date(2025, time.July, 4, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.July, 4, 18, 0, 0, 0, time.UTC)

	for _, pair := range [][2]time.Time{{morning, evening}, {evening, morning}} {
		start, end, err := NormalizeAnnouncementWindow(pair[0], pair[1])
		if err != nil {
			t.Fatalf("NormalizeAnnouncementWindow same day: %v", err)
		}
		wantStart := date(2025, time.July, 4)
		wantEnd := wantStart.Add(24*time.Hour - time.Second)
		if !start.Equal(wantStart) {
			t.Errorf("start = %v, want %v", start, wantStart)
		}
		if !end.Equal(wantEnd) {
			t.Errorf("end = %v, want %v", end, wantEnd)
		}
	}
}

func TestNormalizeAnnouncementWindowRejectsReversed(t *testing.T) {
	start := date(2025, time.July, 10)
	end := date(2025, time.July, 4)

	_, _, err := NormalizeAnnouncementWindow(start, end)
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("reversed window error = %v, want ErrInvalidDateRange", err)
	}
}

func TestNormalizeAnnouncementWindowKeepsValidRange(t *testing.T) {
	start := date(2025, time.July, 4)
	end := date(2025, time.July, 10)

	gotStart, gotEnd, err := NormalizeAnnouncementWindow(start, end)
	if err != nil {
		t.Fatalf("NormalizeAnnouncementWindow: %v", err)
	}
	if !gotStart.Equal(start) || !gotEnd.Equal(end) {
		t.Errorf("window changed: got %v..%v, want %v..%v", gotStart, gotEnd, start, end)
	}
}

func TestAnnouncementStatusAt(t *testing.T) {
	start := time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.July, 4, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before window", start.Add(-time.Hour), AnnouncementScheduled},
		{"at start", start, AnnouncementActive},
		{"mid window", start.Add(12 * time.Hour), AnnouncementActive},
		{"at end", end, AnnouncementActive},
		{"after end", end.Add(time.Second), AnnouncementExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnnouncementStatusAt(tt.now, start, end); got != tt.want {
				t.Errorf("AnnouncementStatusAt(%v) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}

func TestIsValidAudience(t *testing.T) {
	for _, a := range []string{AudienceAll, AudienceStudents, AudienceTeachers, AudienceStaff} {
		if !IsValidAudience(a) {
			t.Errorf("IsValidAudience(%q) = false, want true", a)
		}
	}
	if IsValidAudience("Parents") {
		t.Error("IsValidAudience(\"Parents\") = true, want false")
	}
}
