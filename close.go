package minibatch

import "context"

// Close closes the store and every feature in it, unmapping lazily paged
// features and releasing their spill files. Calling Close again is a no-op.
func (e *Engine) Close() error {
	if e == nil || !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	n := e.store.Len()
	err := e.store.Close()
	e.logger.LogClose(context.Background(), n, err)
	return err
}
