package memory

import (
	"testing"
	"time"

	"github.com/narabot/narabot/internal/domain"
)

func result(url string) *domain.SearchResult {
	return &domain.SearchResult{
		Notices:   []domain.Notice{{Title: "공고", Organization: "조달청"}},
		SourceURL: url,
	}
}

func TestCache_SetAndGet(t *testing.T) {
	cache := New()
	defer cache.Stop()

	cache.Set("k", result("https://a"), 5*time.Second)

	got, ok := cache.Get("k")
	if !ok {
		t.Fatal("Get() should return ok=true for existing key")
	}
	if got.SourceURL != "https://a" || len(got.Notices) != 1 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestCache_GetNonExistent(t *testing.T) {
	cache := New()
	defer cache.Stop()

	if got, ok := cache.Get("missing"); ok || got != nil {
		t.Errorf("Get() = (%v, %v), want (nil, false)", got, ok)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	cache := New()
	defer cache.Stop()

	cache.Set("k", result("https://a"), 50*time.Millisecond)

	if _, ok := cache.Get("k"); !ok {
		t.Error("key should exist before TTL expiration")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get("k"); ok {
		t.Error("key should be expired after TTL")
	}
}

func TestCache_Delete(t *testing.T) {
	cache := New()
	defer cache.Stop()

	cache.Set("k", result("https://a"), time.Minute)
	cache.Delete("k")

	if _, ok := cache.Get("k"); ok {
		t.Error("key should be gone after Delete()")
	}
}

func TestCache_Overwrite(t *testing.T) {
	cache := New()
	defer cache.Stop()

	cache.Set("k", result("https://a"), time.Minute)
	cache.Set("k", result("https://b"), time.Minute)

	got, _ := cache.Get("k")
	if got.SourceURL != "https://b" {
		t.Errorf("Get().SourceURL = %v, want https://b", got.SourceURL)
	}
}

func TestCache_StopIsIdempotent(t *testing.T) {
	cache := New()
	cache.Stop()
	cache.Stop() // не должно паниковать
}
