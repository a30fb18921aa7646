package market

import "testing"

func TestClockSessionClose(t *testing.T) {
	c := newClock()
	if !c.Open {
		t.Fatalf("new clock should be open")
	}
	// 09:30 to 16:00 is 390 minutes of trading.
	for i := 0; i < 389; i++ {
		c.advance()
		if !c.Open {
			t.Fatalf("clock closed early at %02d:%02d (minute %d)", c.Hour, c.Minute, i+1)
		}
	}
	c.advance()
	if c.Open {
		t.Fatalf("clock still open at %02d:%02d", c.Hour, c.Minute)
	}
	if c.Hour != 16 || c.Minute != 0 {
		t.Fatalf("expected 16:00 at close, got %02d:%02d", c.Hour, c.Minute)
	}
}

func TestClockDayRollover(t *testing.T) {
	c := newClock()
	for c.Day == 1 {
		c.advance()
	}
	if c.Day != 2 {
		t.Fatalf("expected day 2, got %d", c.Day)
	}
	if c.Hour != 9 || c.Minute != 30 {
		t.Fatalf("expected reopen at 09:30, got %02d:%02d", c.Hour, c.Minute)
	}
	if !c.Open {
		t.Fatalf("market should reopen on rollover")
	}
}

func TestCalendarDate(t *testing.T) {
	tests := []struct {
		day, month, dayOfMonth int
	}{
		{1, 1, 1},
		{30, 1, 30},
		{31, 2, 1},
		{360, 12, 30},
		{361, 1, 1}, // year wraps
		{75, 3, 15},
	}
	for _, tt := range tests {
		c := Clock{Day: tt.day}
		month, dom := c.calendarDate()
		if month != tt.month || dom != tt.dayOfMonth {
			t.Fatalf("day %d: got %d/%d, want %d/%d", tt.day, month, dom, tt.month, tt.dayOfMonth)
		}
	}
}
