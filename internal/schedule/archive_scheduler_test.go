package schedule

import (
	"context"
	stderrors "errors"
	"testing"
	"time"
)

var pht = time.FixedZone("PHT", 8*3600)

func TestNextRun(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		at   string
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2024, 9, 6, 10, 0, 0, 0, pht),
			at:   "23:55",
			want: time.Date(2024, 9, 6, 23, 55, 0, 0, pht),
		},
		{
			name: "already passed",
			now:  time.Date(2024, 9, 6, 23, 56, 0, 0, pht),
			at:   "23:55",
			want: time.Date(2024, 9, 7, 23, 55, 0, 0, pht),
		},
		{
			name: "exactly now rolls over",
			now:  time.Date(2024, 9, 6, 23, 55, 0, 0, pht),
			at:   "23:55",
			want: time.Date(2024, 9, 7, 23, 55, 0, 0, pht),
		},
		{
			name: "now given in UTC",
			now:  time.Date(2024, 9, 6, 16, 0, 0, 0, time.UTC), // 2024-09-07 00:00 PHT
			at:   "23:55",
			want: time.Date(2024, 9, 7, 23, 55, 0, 0, pht),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(tt.now, tt.at, pht)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextRun = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := NextRun(time.Now(), "noon", pht); err == nil {
		t.Error("invalid time should fail")
	}
}

func TestArchiveDayPublishesLocalDate(t *testing.T) {
	var published []string
	s := NewArchiveScheduler(func(_ context.Context, date time.Time) (string, error) {
		published = append(published, date.Format("2006-01-02"))
		return "history_archive_1", nil
	}, pht)

	// 2024-09-06 16:30 UTC 在 PHT 已是 9 月 7 日
	now := time.Date(2024, 9, 6, 16, 30, 0, 0, time.UTC)
	if err := s.ArchiveDay(context.Background(), now); err != nil {
		t.Fatal(err)
	}

	if len(published) != 1 || published[0] != "2024-09-07" {
		t.Errorf("published = %v", published)
	}
	if !s.LastRun().Equal(now) {
		t.Errorf("last run = %v", s.LastRun())
	}
}

func TestArchiveDayReturnsPublishError(t *testing.T) {
	boom := stderrors.New("broker unavailable")
	s := NewArchiveScheduler(func(context.Context, time.Time) (string, error) {
		return "", boom
	}, pht)

	err := s.ArchiveDay(context.Background(), time.Date(2024, 9, 6, 23, 55, 0, 0, pht))
	if !stderrors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
