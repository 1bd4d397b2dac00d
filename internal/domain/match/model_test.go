package match

import (
	"testing"
	"time"
)

func TestWithinPlayingHours(t *testing.T) {
	loc := time.FixedZone("local", 2*3600)
	tests := []struct {
		at   time.Time
		want bool
	}{
		{at: time.Date(2025, 3, 1, 7, 59, 0, 0, loc), want: false},
		{at: time.Date(2025, 3, 1, 8, 0, 0, 0, loc), want: true},
		{at: time.Date(2025, 3, 1, 21, 59, 0, 0, loc), want: true},
		{at: time.Date(2025, 3, 1, 22, 0, 0, 0, loc), want: false},
		// 06:30 UTC is 08:30 in the local zone.
		{at: time.Date(2025, 3, 1, 6, 30, 0, 0, time.UTC), want: true},
	}
	for _, tt := range tests {
		if got := WithinPlayingHours(tt.at, loc); got != tt.want {
			t.Fatalf("WithinPlayingHours(%s)=%v want=%v", tt.at, got, tt.want)
		}
	}
}

func TestClashes_Symmetric120Minutes(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if !Clashes(base, base.Add(119*time.Minute)) || !Clashes(base.Add(119*time.Minute), base) {
		t.Fatalf("expected 119 minutes apart to clash both ways")
	}
	if Clashes(base, base.Add(120*time.Minute)) {
		t.Fatalf("expected exactly 120 minutes apart to be allowed")
	}
	// Crossing midnight is measured in absolute minutes.
	late := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	early := time.Date(2025, 3, 2, 0, 30, 0, 0, time.UTC)
	if !Clashes(late, early) {
		t.Fatalf("expected clash across midnight")
	}
}

func TestNewScore(t *testing.T) {
	m := Match{ID: "m1", Team1ID: "a", Team2ID: "b"}

	s, err := NewScore(m, 2, 2)
	if err != nil || !s.IsDraw() || s.String() != "2-2" {
		t.Fatalf("expected draw, got %+v %v", s, err)
	}
	s, err = NewScore(m, 3, 1)
	if err != nil || s.WinnerTeamID != "a" {
		t.Fatalf("expected team1 win, got %+v %v", s, err)
	}
	s, err = NewScore(m, 0, 1)
	if err != nil || s.WinnerTeamID != "b" {
		t.Fatalf("expected team2 win, got %+v %v", s, err)
	}
	if _, err := NewScore(m, -1, 0); err == nil {
		t.Fatalf("expected negative score error")
	}
	if _, err := NewScore(m, 101, 0); err == nil {
		t.Fatalf("expected high score error")
	}
}
