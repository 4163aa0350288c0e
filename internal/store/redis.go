package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	redisProblemPrefix = "sumrise:problem:"
	redisProblemIndex  = "sumrise:problems"
)

// putProblemScript writes the record and its recency index entry in one
// step, or neither when the ID is taken.
// KEYS: record, index. ARGV: JSON value, score, ID.
var putProblemScript = redis.NewScript(`
if not redis.call('SET', KEYS[1], ARGV[1], 'NX') then
	return 0
end
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])
return 1
`)

// RedisProblemRepo stores problem records as JSON values in Redis so that
// several server processes can share one problem store.
type RedisProblemRepo struct {
	cmd redis.Cmdable
}

// NewRedisProblemRepo creates a problem store on top of a Redis client.
func NewRedisProblemRepo(cmd redis.Cmdable) *RedisProblemRepo {
	return &RedisProblemRepo{cmd: cmd}
}

func (r *RedisProblemRepo) Put(ctx context.Context, p *Problem) error {
	val, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal problem: %w", err)
	}

	score := strconv.FormatInt(p.CreatedAt.UnixNano(), 10)
	stored, err := putProblemScript.Run(ctx, r.cmd,
		[]string{redisProblemPrefix + p.ID, redisProblemIndex},
		val, score, p.ID,
	).Int()
	if err != nil {
		return fmt.Errorf("store problem: %w", err)
	}
	if stored == 0 {
		return ErrDuplicateID
	}
	return nil
}

func (r *RedisProblemRepo) Get(ctx context.Context, id string) (*Problem, error) {
	val, err := r.cmd.Get(ctx, redisProblemPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get problem %s: %w", id, err)
	}

	var p Problem
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, fmt.Errorf("decode problem %s: %w", id, err)
	}
	return &p, nil
}

func (r *RedisProblemRepo) List(ctx context.Context, limit int) ([]*Problem, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := r.cmd.ZRevRange(ctx, redisProblemIndex, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}

	out := make([]*Problem, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}
