package version

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultKey holds the version counter.
	DefaultKey = "priceboard:version"
	// DefaultChannel carries each new version to every server instance.
	DefaultChannel = "priceboard:updates"
)

// Redis shares the version between server instances. Bumps INCR a counter
// and PUBLISH the new value; subscribers listen on the channel.
type Redis struct {
	rdb     *redis.Client
	key     string
	channel string
	log     *logrus.Logger
}

// NewRedis returns a tracker on rdb using the default key and channel.
func NewRedis(rdb *redis.Client, log *logrus.Logger) *Redis {
	return &Redis{rdb: rdb, key: DefaultKey, channel: DefaultChannel, log: log}
}

func (r *Redis) Current(ctx context.Context) (int64, error) {
	v, err := r.rdb.Get(ctx, r.key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (r *Redis) Bump(ctx context.Context) (int64, error) {
	v, err := r.rdb.Incr(ctx, r.key).Result()
	if err != nil {
		return 0, err
	}
	if err := r.rdb.Publish(ctx, r.channel, v).Err(); err != nil {
		// Subscribers on other instances catch up on their next read.
		r.log.WithError(err).WithField("version", v).Warn("publish board version")
	}
	return v, nil
}

func (r *Redis) Subscribe(ctx context.Context) <-chan int64 {
	out := make(chan int64, 1)
	sub := r.rdb.Subscribe(ctx, r.channel)

	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				v, err := strconv.ParseInt(msg.Payload, 10, 64)
				if err != nil {
					r.log.WithField("payload", msg.Payload).Warn("ignoring malformed version message")
					continue
				}
				offer(out, v)
			}
		}
	}()
	return out
}
