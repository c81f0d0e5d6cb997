package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestRedisCache_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "test:")

	mock.ExpectGet("test:ml-en:abc").SetVal("seedlings")

	val, ok := cache.Get(context.Background(), "ml-en:abc")
	if !ok {
		t.Error("Expected cache hit")
	}
	if val != "seedlings" {
		t.Errorf("Expected 'seedlings', got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Get_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "test:")

	mock.ExpectGet("test:ml-en:abc").RedisNil()

	val, ok := cache.Get(context.Background(), "ml-en:abc")
	if ok {
		t.Error("Expected cache miss")
	}
	if val != "" {
		t.Errorf("Expected empty string, got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Get_ErrorIsMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "test:")

	mock.ExpectGet("test:key").SetErr(context.DeadlineExceeded)

	if _, ok := cache.Get(context.Background(), "key"); ok {
		t.Error("Expected Redis error to surface as a cache miss")
	}
}

func TestRedisCache_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "test:")

	mock.ExpectSet("test:key", "value", 3600*time.Second).SetVal("OK")

	if err := cache.Set(context.Background(), "key", "value"); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Set_NoTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectSet("test:key", "value", 0).SetVal("OK")

	if err := cache.Set(context.Background(), "key", "value"); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_DefaultPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "")

	mock.ExpectGet("sakhi:tr:hash123").SetVal("translated")

	val, ok := cache.Get(context.Background(), "hash123")
	if !ok || val != "translated" {
		t.Errorf("Expected 'translated', got %q (ok=%v)", val, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "test:")

	mock.ExpectPing().SetVal("PONG")

	if err := cache.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
