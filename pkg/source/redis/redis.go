// Package redis loads bean records stored as a JSON array under a Redis key.
//
// Importing the package registers the "redis" source kind.
package redis

import (
	"bytes"
	"context"
	stderrors "errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/matzehuels/beanchain/pkg/bean"
	"github.com/matzehuels/beanchain/pkg/config"
	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/source"
)

func init() {
	source.Register(config.SourceRedis, func(cfg config.Source) (source.Loader, error) {
		return &Loader{
			Addr:     cfg.RedisAddr,
			Key:      cfg.RedisKey,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, nil
	})
}

// Loader GETs Key from the Redis server at Addr.
type Loader struct {
	Addr     string
	Key      string
	Password string
	DB       int
}

// Load fetches and decodes the key.
func (l *Loader) Load(ctx context.Context) ([]bean.Record, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     l.Addr,
		Password: l.Password,
		DB:       l.DB,
	})
	defer rdb.Close()

	data, err := rdb.Get(ctx, l.Key).Bytes()
	if err != nil {
		return nil, classify(err, l.Key)
	}
	return source.Decode(bytes.NewReader(data))
}

// classify maps client errors to source error codes.
func classify(err error, key string) error {
	if stderrors.Is(err, goredis.Nil) {
		return errors.New(errors.ErrCodeSourceNotFound, "redis key %q does not exist", key)
	}
	return errors.Wrap(errors.ErrCodeInvalidSource, err, "get redis key %q", key)
}

// String returns a description of the key without credentials.
func (l *Loader) String() string {
	return "redis:" + l.Addr + "/" + l.Key
}
