package analytics

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryTrackerCounts(t *testing.T) {
	tr := NewMemoryTracker()
	tr.Incr("cupid", CounterPageViews)
	tr.Incr("cupid", CounterPageViews)
	tr.Incr("cupid", CounterLikes)
	tr.Incr("juliet", CounterFollows)

	s, err := tr.Summary("cupid")
	if err != nil {
		t.Fatal(err)
	}
	if s.PageViews != 2 || s.Likes != 1 || s.Follows != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}

	s, _ = tr.Summary("nobody")
	if s.PageViews != 0 {
		t.Fatalf("unknown user should have zero counters: %+v", s)
	}
}

func TestRedisTrackerCounts(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tr := NewRedisTracker(client)

	tr.Incr("cupid", CounterMessagesSent)
	tr.Incr("cupid", CounterMessagesSent)
	tr.Incr("cupid", CounterRequestsSent)

	s, err := tr.Summary("cupid")
	if err != nil {
		t.Fatal(err)
	}
	if s.MessagesSent != 2 || s.RequestsSent != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
