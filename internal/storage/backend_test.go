// AngelaMos | 2026
// backend_test.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/esimphony/internal/config"
	"github.com/carterperez-dev/esimphony/internal/core"
)

func jsonEqual(t *testing.T, got, want []byte) bool {
	t.Helper()
	var g, w any
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("stored value is not JSON: %s", got)
	}
	if err := json.Unmarshal(want, &w); err != nil {
		t.Fatalf("bad fixture %s", want)
	}
	return reflect.DeepEqual(g, w)
}

// testBackendContract runs the behavior every backend shares. Scope
// names are prefixed so runs against a shared server do not collide.
func testBackendContract(t *testing.T, b Backend, prefix string) {
	ctx := context.Background()
	scope := prefix + "device-1"
	sibling := prefix + "device-10"

	t.Run("missing key", func(t *testing.T) {
		if _, err := b.Get(ctx, scope, "absent"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("empty scope", func(t *testing.T) {
		if err := b.Set(ctx, "", KeyUserProfile, []byte(`1`)); !errors.Is(err, ErrInvalidScope) {
			t.Errorf("Set() error = %v, want ErrInvalidScope", err)
		}
		if err := b.Clear(ctx, ""); !errors.Is(err, ErrInvalidScope) {
			t.Errorf("Clear() error = %v, want ErrInvalidScope", err)
		}
	})

	t.Run("round trip and overwrite", func(t *testing.T) {
		values := [][]byte{
			[]byte(`{"firstName":"Sally","balance":25.5,"tags":["a","b"]}`),
			[]byte(`{"firstName":"Sally","balance":0}`),
			[]byte(`true`),
		}
		for _, v := range values {
			if err := b.Set(ctx, scope, KeyUserProfile, v); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := b.Get(ctx, scope, KeyUserProfile)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !jsonEqual(t, got, v) {
				t.Errorf("Get() = %s, want %s", got, v)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := b.Set(ctx, scope, KeyTopUpSource, []byte(`"home"`)); err != nil {
			t.Fatal(err)
		}
		if err := b.Delete(ctx, scope, KeyTopUpSource); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := b.Get(ctx, scope, KeyTopUpSource); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
		}
		if err := b.Delete(ctx, scope, KeyTopUpSource); err != nil {
			t.Errorf("Delete() of absent key error = %v", err)
		}
	})

	t.Run("clear keeps sibling scope", func(t *testing.T) {
		for _, s := range []string{scope, sibling} {
			if err := b.Set(ctx, s, KeyUserProfile, []byte(`{"id":1}`)); err != nil {
				t.Fatal(err)
			}
			if err := b.Set(ctx, s, KeyIsAuthenticated, []byte(`true`)); err != nil {
				t.Fatal(err)
			}
		}

		if err := b.Clear(ctx, scope); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}

		for _, key := range []string{KeyUserProfile, KeyIsAuthenticated} {
			if _, err := b.Get(ctx, scope, key); !errors.Is(err, ErrNotFound) {
				t.Errorf("cleared %s error = %v, want ErrNotFound", key, err)
			}
			if _, err := b.Get(ctx, sibling, key); err != nil {
				t.Errorf("sibling %s error = %v", key, err)
			}
		}

		if err := b.Clear(ctx, sibling); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := b.Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}

func TestMemoryBackendContract(t *testing.T) {
	testBackendContract(t, NewMemoryBackend(), "")
}

func newMiniredisBackend(t *testing.T, ttl time.Duration) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBackend(client, "esim", ttl), mr
}

func TestRedisBackendContract(t *testing.T) {
	b, _ := newMiniredisBackend(t, 0)
	testBackendContract(t, b, "")
}

func TestRedisBackendLayout(t *testing.T) {
	ctx := context.Background()
	b, mr := newMiniredisBackend(t, time.Hour)

	if err := b.Set(ctx, "device-1", KeyUserProfile, []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("esim:device-1:" + KeyUserProfile) {
		t.Fatalf("keys = %v, want prefixed entry", mr.Keys())
	}
	if ttl := mr.TTL("esim:device-1:" + KeyUserProfile); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}

	if err := mr.Set("other:device-1:"+KeyUserProfile, "{}"); err != nil {
		t.Fatal(err)
	}
	if err := b.Clear(ctx, "device-1"); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("other:device-1:" + KeyUserProfile) {
		t.Error("Clear() removed a key under another prefix")
	}

	mr.SetError("server down")
	if _, err := b.Get(ctx, "device-1", KeyUserProfile); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on failing server error = %v, want a non ErrNotFound error", err)
	}
}

func TestPostgresBackendContract(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:          url,
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	b := NewPostgresBackend(db.DB)
	if err := b.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := b.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema() error = %v", err)
	}

	testBackendContract(t, b, "test-"+uuid.NewString()+"-")
}
