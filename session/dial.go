package session

import (
	"context"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// defaultDialMaxElapsed bounds how long dialWithRetry keeps retrying a
// connection before giving up, rather than retrying forever against a
// host that is simply down.
const defaultDialMaxElapsed = 30 * time.Second

// dialWithRetry dials addr with exponential backoff. It never retries
// mid-session — only connection establishment.
func dialWithRetry(ctx context.Context, addr string, maxElapsed time.Duration) (net.Conn, error) {
	if maxElapsed <= 0 {
		maxElapsed = defaultDialMaxElapsed
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed

	var conn net.Conn
	operation := func() error {
		c, err := net.Dial("tcp", addr)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, errors.Wrap(err, "session: dial")
	}
	return conn, nil
}
