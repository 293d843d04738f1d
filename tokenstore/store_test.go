package tokenstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/httpclient"
)

// The pipeline consumes stores through its own interface.
var (
	_ httpclient.TokenStore = (*Memory)(nil)
	_ httpclient.TokenStore = (*File)(nil)
	_ httpclient.TokenStore = (*Redis)(nil)
)

// exerciseStore runs the common Store contract against s.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok, err := s.Get(ctx, "token"); err != nil || !ok || v != "abc" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if err := s.Set(ctx, "token", "def"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if v, _, _ := s.Get(ctx, "token"); v != "def" {
		t.Errorf("expected overwritten value, got %q", v)
	}
	if err := s.Delete(ctx, "token"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "token"); ok {
		t.Error("expected key to be gone")
	}
	if err := s.Delete(ctx, "token"); err != nil {
		t.Errorf("deleting a missing key should succeed: %v", err)
	}
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFile(t *testing.T) {
	s, err := NewFile(FileConfig{Path: filepath.Join(t.TempDir(), "nested", "tokens.json")}, nil)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestFile_SharedBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	a, err := NewFile(FileConfig{Path: path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := NewFile(FileConfig{Path: path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	ctx := context.Background()
	if err := a.Set(ctx, "token", "shared"); err != nil {
		t.Fatal(err)
	}
	if v, ok, err := b.Get(ctx, "token"); err != nil || !ok || v != "shared" {
		t.Errorf("second instance Get = %q, %v, %v", v, ok, err)
	}
}

func TestFile_ConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	ctx := context.Background()

	var wg sync.WaitGroup
	keys := []string{"a", "b", "c", "d", "e", "f"}
	for _, k := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			s, err := NewFile(FileConfig{Path: path}, nil)
			if err != nil {
				t.Error(err)
				return
			}
			defer s.Close()
			if err := s.Set(ctx, key, key); err != nil {
				t.Error(err)
			}
		}(k)
	}
	wg.Wait()

	s, _ := NewFile(FileConfig{Path: path}, nil)
	defer s.Close()
	for _, k := range keys {
		if v, ok, _ := s.Get(ctx, k); !ok || v != k {
			t.Errorf("key %s lost: %q, %v", k, v, ok)
		}
	}
}

func TestFile_CorruptFileIsStoreFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	s, _ := NewFile(FileConfig{Path: path}, nil)
	defer s.Close()
	if err := writeRaw(path, "{not json"); err != nil {
		t.Fatal(err)
	}

	_, _, err := s.Get(context.Background(), "token")
	if !errors.HasCode(err, errors.ErrCodeStore) {
		t.Errorf("expected store failure, got %v", err)
	}
}

func newMiniredisStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	s, err := NewRedis(RedisConfig{Addr: mini.Addr(), KeyPrefix: "test:"}, nil)
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mini
}

func TestRedis(t *testing.T) {
	s, _ := newMiniredisStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	exerciseStore(t, s)
}

func TestRedis_KeyPrefixAndNoExpiry(t *testing.T) {
	s, mini := newMiniredisStore(t)
	if err := s.Set(context.Background(), "token", "abc"); err != nil {
		t.Fatal(err)
	}
	v, err := mini.Get("test:token")
	if err != nil || v != "abc" {
		t.Errorf("expected prefixed key, got %q, %v", v, err)
	}
	if ttl := mini.TTL("test:token"); ttl != 0 {
		t.Errorf("expected no expiry, got %v", ttl)
	}
}

func TestRedis_ServerDownIsStoreFailure(t *testing.T) {
	s, mini := newMiniredisStore(t)
	mini.Close()

	_, _, err := s.Get(context.Background(), "token")
	if !errors.HasCode(err, errors.ErrCodeStore) {
		t.Errorf("expected store failure, got %v", err)
	}
}

func TestNew_Drivers(t *testing.T) {
	mini := miniredis.RunT(t)
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{Driver: DriverMemory}, "*tokenstore.Memory"},
		{Config{Driver: DriverFile, File: FileConfig{Path: filepath.Join(t.TempDir(), "t.json")}}, "*tokenstore.File"},
		{Config{Driver: DriverRedis, Redis: RedisConfig{Addr: mini.Addr()}}, "*tokenstore.Redis"},
	}
	for _, tt := range tests {
		s, err := New(tt.cfg, nil)
		if err != nil {
			t.Fatalf("%s: %v", tt.cfg.Driver, err)
		}
		if got := typeName(s); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.cfg.Driver, tt.want, got)
		}
		_ = s.Close()
	}
}

func TestNew_InvalidDriver(t *testing.T) {
	_, err := New(Config{Driver: "sqlite"}, nil)
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Driver != DriverFile {
		t.Errorf("expected file driver, got %s", cfg.Driver)
	}
	if cfg.File.Path == "" || cfg.Redis.KeyPrefix != "apiclient:" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	cfg.Redis.ReadTimeout = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid duration error")
	}
}

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
