// Package connlog reports client connection events of the server stack.
package connlog

import "go.uber.org/zap"

// Recorder receives one observation per connection event.
type Recorder interface {
	ConnectionEvent(connected bool)
}

// Logger is a stateless sink for connection opened/closed notifications.
// It is called on stack threads and never blocks or panics.
type Logger struct {
	log *zap.Logger
	rec Recorder
}

// New returns a Logger. rec may be nil.
func New(log *zap.Logger, rec Recorder) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log, rec: rec}
}

// OnConnectionEvent logs a connection transition of peer.
func (l *Logger) OnConnectionEvent(peer string, connected bool) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("connection event handler failed", zap.Any("panic", r))
		}
	}()

	if connected {
		l.log.Info("Connection opened", zap.String("peer", peer), zap.Bool("connected", true))
	} else {
		l.log.Info("Connection closed", zap.String("peer", peer), zap.Bool("connected", false))
	}
	if l.rec != nil {
		l.rec.ConnectionEvent(connected)
	}
}
