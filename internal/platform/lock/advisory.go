package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Advisory is a Locker backed by Postgres session advisory locks. All keys
// of one Lock call share a single connection from DB, which must not be the
// pool the grid reads and writes through.
type Advisory struct {
	DB   *pgxpool.Pool
	Wait time.Duration
}

func NewAdvisory(pool *pgxpool.Pool, wait time.Duration) *Advisory {
	return &Advisory{DB: pool, Wait: wait}
}

func (a *Advisory) Lock(ctx context.Context, keys ...string) (func(), error) {
	if a.Wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Wait)
		defer cancel()
	}

	conn, err := a.DB.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock connection: %w", err)
	}
	release := func() {
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock_all()"); err != nil {
			slog.Warn("advisory unlock failed", "keys", keys, "err", err)
			// the session may still hold locks
			_ = conn.Conn().Close(context.Background())
		}
		conn.Release()
	}

	for _, key := range ordered(keys) {
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock(hashtext($1))", key); err != nil {
			release()
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}
