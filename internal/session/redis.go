package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session in a Redis hash
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store writing to the hash at key
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load reads the session hash
func (r *RedisStore) Load(ctx context.Context) (State, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return State{}, fmt.Errorf("failed to read session from redis: %w", err)
	}
	if len(fields) == 0 {
		return State{}, ErrNotFound
	}

	loggedIn, err := strconv.ParseBool(fields["logged_in"])
	if err != nil {
		return State{}, fmt.Errorf("invalid logged_in value %q: %w", fields["logged_in"], err)
	}
	return State{
		LoggedIn:  loggedIn,
		Username:  fields["username"],
		FirstName: fields["first_name"],
	}, nil
}

// Save replaces the session hash atomically
func (r *RedisStore) Save(ctx context.Context, state State) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key,
			"logged_in", strconv.FormatBool(state.LoggedIn),
			"username", state.Username,
			"first_name", state.FirstName,
		)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to write session to redis: %w", err)
	}
	return nil
}
