// Package closer aggregates the Close calls of service dependencies
// so shutdown happens in one place, in reverse registration order.
package closer

import (
	"github.com/formforge/form-service/pkg/logger"
	"go.uber.org/zap"
)

type (
	Closer interface {
		Close() error
	}

	CloserGroup struct {
		closers []Closer
		logger  *logger.Logger
	}
)

func NewCloserGroup(logger *logger.Logger, closers ...Closer) *CloserGroup {
	return &CloserGroup{
		closers: closers,
		logger:  logger,
	}
}

// Add registers another dependency to close at shutdown.
func (c *CloserGroup) Add(closer Closer) {
	c.closers = append(c.closers, closer)
}

// Close closes all registered dependencies in reverse order. Every
// closer is attempted; the first error encountered is returned.
func (c *CloserGroup) Close() error {
	var firstErr error

	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			c.logger.Error("error closing dependency", zap.Error(err))

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
