package conversation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"autoassist_backend/internal/scoring"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, window int) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheWithClient(client, window, time.Hour)
}

func TestAppendAndHistory(t *testing.T) {
	cache := newTestCache(t, 10)
	ctx := context.Background()
	leadID := uuid.New()

	turns := []scoring.Turn{
		{Role: "user", Content: "Wat kost de Golf?"},
		{Role: "assistant", Content: "De Golf staat voor 24.950 euro"},
		{Role: "user", Content: "Kan ik een proefrit maken?"},
	}
	for _, turn := range turns {
		if err := cache.Append(ctx, leadID, turn); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := cache.History(ctx, leadID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != len(turns) {
		t.Fatalf("History returned %d turns, want %d", len(got), len(turns))
	}
	for i := range turns {
		if got[i] != turns[i] {
			t.Errorf("turn %d = %+v, want %+v", i, got[i], turns[i])
		}
	}
}

func TestWindowTrimsOldestTurns(t *testing.T) {
	cache := newTestCache(t, 3)
	ctx := context.Background()
	leadID := uuid.New()

	for i := 0; i < 5; i++ {
		turn := scoring.Turn{Role: "user", Content: fmt.Sprintf("bericht %d", i)}
		if err := cache.Append(ctx, leadID, turn); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := cache.History(ctx, leadID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("window holds %d turns, want 3", len(got))
	}
	if got[0].Content != "bericht 2" || got[2].Content != "bericht 4" {
		t.Errorf("window kept wrong turns: %+v", got)
	}
}

func TestHistoryColdCache(t *testing.T) {
	cache := newTestCache(t, 10)

	got, err := cache.History(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("cold cache returned %d turns, want 0", len(got))
	}
}

func TestInvalidate(t *testing.T) {
	cache := newTestCache(t, 10)
	ctx := context.Background()
	leadID := uuid.New()

	if err := cache.Append(ctx, leadID, scoring.Turn{Role: "user", Content: "hoi"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := cache.Invalidate(ctx, leadID); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	got, err := cache.History(ctx, leadID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("history after invalidate has %d turns, want 0", len(got))
	}
}
