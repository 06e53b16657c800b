package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// updateRetries bounds optimistic-lock retries before giving up.
const updateRetries = 16

// Redis is a Store over a Redis instance: documents live in plain keys
// and snapshot fan-out rides pub/sub on a per-document channel. Good for
// multi-node deployments where two hub processes share one document set.
type Redis struct {
	rdb *redis.Client
	log *logrus.Entry
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client, log *logrus.Entry) *Redis {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Redis{rdb: rdb, log: log}
}

// DialRedis connects to the given address and verifies the connection.
func DialRedis(ctx context.Context, addr string, log *logrus.Entry) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return NewRedis(rdb, log), nil
}

func channelFor(path string) string {
	return "doc:" + path
}

func (r *Redis) Get(ctx context.Context, path string) ([]byte, error) {
	data, err := r.rdb.Get(ctx, path).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return data, nil
}

func (r *Redis) Overwrite(ctx context.Context, path string, data []byte) error {
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, path, data, 0)
	pipe.Publish(ctx, channelFor(path), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("overwrite %s: %w", path, err)
	}
	return nil
}

func (r *Redis) Update(ctx context.Context, path string, fn func(old []byte) ([]byte, error)) error {
	txn := func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, path).Bytes()
		if errors.Is(err, redis.Nil) {
			old = nil
		} else if err != nil {
			return err
		}
		updated, err := fn(old)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, path, updated, 0)
			pipe.Publish(ctx, channelFor(path), updated)
			return nil
		})
		return err
	}

	for i := 0; i < updateRetries; i++ {
		err := r.rdb.Watch(ctx, txn, path)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("update %s: too many write conflicts", path)
}

func (r *Redis) Subscribe(ctx context.Context, path string, fn func(data []byte)) (func(), error) {
	sub := r.rdb.Subscribe(ctx, channelFor(path))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", path, err)
	}

	// Initial snapshot, if the document already exists.
	if current, err := r.Get(ctx, path); err == nil {
		fn(current)
	} else if !errors.Is(err, ErrNotFound) {
		r.log.WithError(err).WithField("path", path).Warn("initial snapshot read failed")
	}

	ch := sub.Channel()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				// An empty payload is a deletion tombstone.
				var payload []byte
				if msg.Payload != "" {
					payload = []byte(msg.Payload)
				}
				fn(payload)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	unsub := func() {
		close(done)
		sub.Close()
	}
	return unsub, nil
}

func (r *Redis) Delete(ctx context.Context, path string) error {
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, path)
	pipe.Publish(ctx, channelFor(path), "")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
