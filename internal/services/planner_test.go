package services

import (
	"testing"
	"time"
)

func allDays(time.Time) bool { return true }

func TestNextSlot(t *testing.T) {
	day := func(hour, min int) time.Time {
		return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC) // a Tuesday
	}

	tests := []struct {
		name  string
		slots []string
		now   time.Time
		want  time.Time
	}{
		{
			name:  "next slot later today",
			slots: []string{"09:00", "12:00", "18:00"},
			now:   day(10, 0),
			want:  day(12, 0),
		},
		{
			name:  "slot equal to now is not chosen",
			slots: []string{"09:00", "12:00", "18:00"},
			now:   day(12, 0),
			want:  day(18, 0),
		},
		{
			name:  "after last slot rolls to tomorrow's first",
			slots: []string{"09:00", "12:00", "18:00"},
			now:   day(19, 0),
			want:  day(9, 0).AddDate(0, 0, 1),
		},
		{
			name:  "unsorted template is normalized",
			slots: []string{"18:00", "09:00", "12:00"},
			now:   day(10, 0),
			want:  day(12, 0),
		},
		{
			name:  "invalid entries are skipped",
			slots: []string{"garbage", "25:99", "15:00"},
			now:   day(10, 0),
			want:  day(15, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := nextSlot(tt.slots, tt.now, allDays)
			if !ok {
				t.Fatal("nextSlot() ok = false, expected a slot")
			}
			if !got.Equal(tt.want) {
				t.Errorf("nextSlot() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextSlot_NoValidEntries(t *testing.T) {
	_, ok := nextSlot([]string{"nope", ""}, time.Now(), allDays)
	if ok {
		t.Error("nextSlot() with no valid entries should report ok = false")
	}
}

func TestNextSlot_RollsOverNonWorkdays(t *testing.T) {
	// Friday evening, weekend off: the slot lands on Monday morning.
	friday := time.Date(2026, 3, 13, 22, 0, 0, 0, time.UTC)
	weekdaysOnly := func(t time.Time) bool {
		wd := t.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}

	got, ok := nextSlot([]string{"09:00", "18:00"}, friday, weekdaysOnly)
	if !ok {
		t.Fatal("nextSlot() ok = false")
	}

	want := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("nextSlot() = %v, want %v (next Monday)", got, want)
	}
}

func TestNextSlot_NonWorkdayTodaySkipsTodaySlots(t *testing.T) {
	// Saturday morning: even though 18:00 is still ahead today, the date
	// must roll to Monday.
	saturday := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	weekdaysOnly := func(t time.Time) bool {
		wd := t.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}

	got, ok := nextSlot([]string{"09:00", "18:00"}, saturday, weekdaysOnly)
	if !ok {
		t.Fatal("nextSlot() ok = false")
	}

	want := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("nextSlot() = %v, want %v", got, want)
	}
}
