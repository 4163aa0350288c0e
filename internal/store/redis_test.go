package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return srv, client
}

func TestRedisProblemRepo(t *testing.T) {
	problemRepoContract(t, func(t *testing.T) ProblemRepo {
		_, client := newMiniredisClient(t)
		return NewRedisProblemRepo(client)
	})
}

func TestRedisPutWritesRecordAndIndexTogether(t *testing.T) {
	srv, client := newMiniredisClient(t)
	repo := NewRedisProblemRepo(client)
	ctx := context.Background()

	first := &Problem{ID: "p1", DisplayText: "What is 2+2?", CreatedAt: time.Unix(100, 0)}
	require.NoError(t, repo.Put(ctx, first))

	assert.True(t, srv.Exists(redisProblemPrefix+"p1"))
	members, err := srv.ZMembers(redisProblemIndex)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, members)
	score, err := srv.ZScore(redisProblemIndex, "p1")
	require.NoError(t, err)
	assert.Equal(t, float64(first.CreatedAt.UnixNano()), score)

	dup := &Problem{ID: "p1", DisplayText: "overwrite", CreatedAt: time.Unix(200, 0)}
	assert.ErrorIs(t, repo.Put(ctx, dup), ErrDuplicateID)

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "What is 2+2?", got.DisplayText)
	score, err = srv.ZScore(redisProblemIndex, "p1")
	require.NoError(t, err)
	assert.Equal(t, float64(first.CreatedAt.UnixNano()), score, "duplicate put leaves the index untouched")
}

func TestRedisPutSurvivesScriptFlush(t *testing.T) {
	srv, client := newMiniredisClient(t)
	repo := NewRedisProblemRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &Problem{ID: "a", CreatedAt: time.Unix(1, 0)}))
	srv.FlushAll()
	require.NoError(t, client.ScriptFlush(ctx).Err())
	require.NoError(t, repo.Put(ctx, &Problem{ID: "b", CreatedAt: time.Unix(2, 0)}))

	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

// Set SUMRISE_TEST_REDIS_ADDR (e.g. localhost:6379) to also run against a
// live server. The test flushes database 15.
func TestRedisProblemRepoLive(t *testing.T) {
	addr := os.Getenv("SUMRISE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SUMRISE_TEST_REDIS_ADDR not set")
	}

	problemRepoContract(t, func(t *testing.T) ProblemRepo {
		client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
		if err := client.FlushDB(context.Background()).Err(); err != nil {
			t.Fatalf("flush redis: %v", err)
		}
		t.Cleanup(func() { client.Close() })
		return NewRedisProblemRepo(client)
	})
}
