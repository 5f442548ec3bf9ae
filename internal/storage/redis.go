package storage

import (
	"context"

	"github.com/redis/rueidis"
)

const DefaultRedisPrefix = "daytodo"

type RedisBackend struct {
	client rueidis.Client
	prefix string
}

func OpenRedis(addr, prefix string) (*RedisBackend, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, err
	}
	return NewRedisBackend(client, prefix), nil
}

func NewRedisBackend(client rueidis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) key(slot Slot) string {
	return r.prefix + ":" + string(slot)
}

func (r *RedisBackend) Get(ctx context.Context, slot Slot) ([]byte, bool, error) {
	cmd := r.client.B().Get().Key(r.key(slot)).Build()
	blob, err := r.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return blob, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, slot Slot, blob []byte) error {
	cmd := r.client.B().Set().Key(r.key(slot)).Value(rueidis.BinaryString(blob)).Build()
	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisBackend) Remove(ctx context.Context, slot Slot) error {
	cmd := r.client.B().Del().Key(r.key(slot)).Build()
	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisBackend) Close() error {
	r.client.Close()
	return nil
}
