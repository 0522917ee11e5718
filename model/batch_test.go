package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBatchStatusAt(t *testing.T) {
	start := date(2025, time.March, 10)
	end := date(2025, time.March, 20)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"day before start", date(2025, time.March, 9), BatchUpcoming},
		{"on start day", date(2025, time.March, 10), BatchActive},
		{"mid window", date(2025, time.March, 15), BatchActive},
		{"on end day", date(2025, time.March, 20), BatchActive},
		{"day after end", date(2025, time.March, 21), BatchCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BatchStatusAt(tt.now, start, end); got != tt.want {
				t.Errorf("BatchStatusAt(%s) = %q, want %q", tt.now.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestBatchStatusAtIgnoresTimeOfDay(t *testing.T) {
	start := date(2025, time.March, 10)
	end := date(2025, time.March, 20)

	// 23:59 on the end day is still active; the comparison is by calendar
	// day, not instant.
	lateOnEndDay := time.Date(2025, time.March, 20, 23, 59, 0, 0, time.UTC)
	if got := BatchStatusAt(lateOnEndDay, start, end); got != BatchActive {
		t.Errorf("status late on end day = %q, want %q", got, BatchActive)
	}

	earlyOnStartDay := time.Date(2025, time.March, 10, 0, 0, 1, 0, time.UTC)
	if got := BatchStatusAt(earlyOnStartDay, start, end); got != BatchActive {
		t.Errorf("status early on start day = %q, want %q", got, BatchActive)
	}
}

func TestBatchStatusAtDeterministic(t *testing.T) {
	start := date(2025, time.June, 1)
	end := date(2025, time.June, 30)
	now := date(2025, time.June, 15)

	first := BatchStatusAt(now, start, end)
	for i := 0; i < 10; i++ {
		if got := BatchStatusAt(now, start, end); got != first {
			t.Fatalf("status changed across calls: %q vs %q", got, first)
		}
	}
}

func TestBatchSingleDayWindow(t *testing.T) {
	day := date(2025, time.April, 5)

	if got := BatchStatusAt(day, day, day); got != BatchActive {
		t.Errorf("single-day batch on its day = %q, want %q", got, BatchActive)
	}
	if got := BatchStatusAt(date(2025, time.April, 6), day, day); got != BatchCompleted {
		t.Errorf("single-day batch next day = %q, want %q", got, BatchCompleted)
	}
}

func TestHasStudentAndIsFull(t *testing.T) {
	b := Batch{
		Capacity:           2,
		EnrolledStudentIDs: []int64{7, 9},
	}

	if !b.HasStudent(7) {
		t.Error("HasStudent(7) = false, want true")
	}
	if b.HasStudent(8) {
		t.Error("HasStudent(8) = true, want false")
	}
	if !b.IsFull() {
		t.Error("IsFull() = false with roster at capacity")
	}

	b.EnrolledStudentIDs = []int64{7}
	if b.IsFull() {
		t.Error("IsFull() = true with room left")
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2025, time.May, 3, 18, 45, 12, 999, time.UTC)
	want := date(2025, time.May, 3)
	if got := DateOnly(in); !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v, want %v", in, got, want)
	}
}
