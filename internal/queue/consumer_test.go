package queue

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"CadetTrack/storage/mq"
)

type recordingArchiver struct {
	dates []time.Time
	err   error
}

func (a *recordingArchiver) ArchiveDate(_ context.Context, date time.Time) error {
	a.dates = append(a.dates, date)
	return a.err
}

func TestHistoryArchiveHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("archives the requested date", func(t *testing.T) {
		archiver := &recordingArchiver{}
		handler := HistoryArchiveHandler(archiver)

		err := handler(ctx, mq.Message{
			ID:   "history_archive_1",
			Body: []byte(`{"message_id":"history_archive_1","attendance_date":"2024-09-06"}`),
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(archiver.dates) != 1 || archiver.dates[0].Format("2006-01-02") != "2024-09-06" {
			t.Errorf("archived = %v", archiver.dates)
		}
	})

	t.Run("drops malformed messages", func(t *testing.T) {
		archiver := &recordingArchiver{}
		handler := HistoryArchiveHandler(archiver)

		for _, body := range []string{`not json`, `{"attendance_date":"06/09/2024"}`} {
			if err := handler(ctx, mq.Message{ID: "bad", Body: []byte(body)}); err != nil {
				t.Errorf("body %q: err = %v, want nil", body, err)
			}
		}
		if len(archiver.dates) != 0 {
			t.Errorf("archived = %v, want none", archiver.dates)
		}
	})

	t.Run("returns archive errors for requeue", func(t *testing.T) {
		boom := stderrors.New("database down")
		handler := HistoryArchiveHandler(&recordingArchiver{err: boom})

		err := handler(ctx, mq.Message{
			ID:   "history_archive_2",
			Body: []byte(`{"attendance_date":"2024-09-06"}`),
		})
		if !stderrors.Is(err, boom) {
			t.Errorf("err = %v, want wrapped %v", err, boom)
		}
	})
}

func TestArchiverFunc(t *testing.T) {
	var got time.Time
	var a Archiver = ArchiverFunc(func(_ context.Context, date time.Time) error {
		got = date
		return nil
	})

	want := time.Date(2024, 9, 6, 0, 0, 0, 0, time.UTC)
	if err := a.ArchiveDate(context.Background(), want); err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Errorf("got %v", got)
	}
}
