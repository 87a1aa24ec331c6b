package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func sampleSession() *Session {
	s := New()
	s.State = CartView
	s.Language = "ru"
	s.Cart.Add(1, 2)
	s.Cart.Add(7, 1)
	s.StoreID = 1
	s.Location = &models.Location{Latitude: 41.3, Longitude: 69.2}
	s.PromoCode = "SPRING"
	s.Quote = &Quote{
		Subtotal:    decimal.RequireFromString("48.000"),
		DeliveryFee: decimal.RequireFromString("10.000"),
		Total:       decimal.RequireFromString("58.000"),
	}
	return s
}

func TestStores_RoundTrip(t *testing.T) {
	_, client := setupTestRedis(t)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client, "", 0),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			fresh, err := store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, Idle, fresh.State)
			assert.True(t, fresh.Cart.Empty())

			want := sampleSession()
			require.NoError(t, store.Put(ctx, 42, want))

			got, err := store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, want.State, got.State)
			assert.Equal(t, want.Cart, got.Cart)
			assert.Equal(t, want.Location, got.Location)
			assert.True(t, want.Quote.Total.Equal(got.Quote.Total))

			require.NoError(t, store.Delete(ctx, 42))
			got, err = store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, Idle, got.State)
		})
	}
}

func TestMemoryStore_IsolatesCart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := sampleSession()
	require.NoError(t, store.Put(ctx, 1, s))
	s.Cart.Add(99, 1)

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	_, ok := got.Cart[99]
	assert.False(t, ok, "stored cart must not alias the caller's map")
}

func TestRedisStore_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	store := NewRedisStore(client, "test:", time.Minute)

	require.NoError(t, store.Put(ctx, 5, sampleSession()))
	assert.True(t, mr.Exists("test:5"))

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, Idle, got.State)
}

func TestSession_ClearOrderAndReset(t *testing.T) {
	s := sampleSession()
	s.ClearOrder()

	assert.True(t, s.Cart.Empty())
	assert.Empty(t, s.PromoCode)
	assert.Nil(t, s.Quote)
	assert.Equal(t, int64(1), s.StoreID)

	s = sampleSession()
	s.Reset()
	assert.Equal(t, Idle, s.State)
	assert.Equal(t, "ru", s.Language)
	assert.Nil(t, s.Location)
}

func TestLocker_SerializesPerUser(t *testing.T) {
	locker := NewLocker()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock(7)
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, locker.locks)
}

func TestLocker_DifferentUsersDoNotBlock(t *testing.T) {
	locker := NewLocker()
	unlockA := locker.Lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locker.Lock(2)
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for another user blocked")
	}
}
