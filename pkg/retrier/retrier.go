// Package retrier provides small retry helpers used when connecting
// to external dependencies at startup and when refreshing the cache.
package retrier

import "time"

// Connect attempts connector up to retry times, sleeping the given
// number of seconds between failed attempts, and returns the first
// successful connection or the last error.
func Connect[T any](retry uint8, sleep uint, connector func() (T, error)) (T, error) {
	var (
		out T
		err error
	)

	for i := uint8(0); i < retry; i++ {
		out, err = connector()
		if err == nil {
			return out, nil
		}

		time.Sleep(time.Duration(sleep) * time.Second)
	}

	return out, err
}

// Do runs fn up to retry times with the given sleep in seconds between
// attempts. Returns nil on the first success, otherwise the last error.
func Do(retry uint8, sleep uint, fn func() error) error {
	var err error

	for i := uint8(0); i < retry; i++ {
		if err = fn(); err == nil {
			return nil
		}

		time.Sleep(time.Duration(sleep) * time.Second)
	}

	return err
}
