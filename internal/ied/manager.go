package ied

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/marrasen/customied/internal/fileaccess"
	"github.com/marrasen/customied/internal/simulation"

	"go.uber.org/zap"
)

var (
	// ErrStartFailed means the server could not bind its port. It is not retried.
	ErrStartFailed = errors.New("starting server failed (maybe need root permissions or another server is already using the port)")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("server already started")
	// ErrDestroyed is returned when the server handle is gone.
	ErrDestroyed = errors.New("server destroyed")
)

// StateRecorder is notified on every lifecycle transition.
type StateRecorder interface {
	ServerState(state int)
}

// Manager owns the server handle. It is the only path through which the
// handle is configured, started, written to and torn down.
type Manager struct {
	mu     sync.Mutex
	server Server
	state  State
	port   int

	log *zap.Logger
	rec StateRecorder
}

// New creates the server from cfg, sets its identity and write policies and
// installs the handlers. The file access handler is only installed when
// file services are enabled.
func New(cfg ServerConfig, factory Factory, handlers Handlers, log *zap.Logger, rec StateRecorder) (*Manager, error) {
	if factory == nil {
		return nil, errors.New("ied: nil server factory")
	}
	if handlers == nil {
		return nil, errors.New("ied: nil handlers")
	}
	if log == nil {
		log = zap.NewNop()
	}

	server, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}

	m := &Manager{server: server, port: cfg.Port, log: log, rec: rec}
	m.setState(StateCreated)

	if err := m.configure(cfg, handlers); err != nil {
		m.server.Destroy()
		m.setState(StateDestroyed)
		return nil, err
	}
	return m, nil
}

func (m *Manager) configure(cfg ServerConfig, handlers Handlers) error {
	id := cfg.Identity
	m.server.SetServerIdentity(id.Vendor, id.Model, id.Revision)

	fcs := make([]FunctionalConstraint, 0, len(cfg.WriteAccess))
	for fc := range cfg.WriteAccess {
		fcs = append(fcs, fc)
	}
	slices.Sort(fcs)
	for _, fc := range fcs {
		policy := cfg.WriteAccess[fc]
		if err := m.server.SetWriteAccessPolicy(fc, policy); err != nil {
			return fmt.Errorf("set write access policy FC=%s: %w", fc, err)
		}
		m.log.Debug("write access policy set", zap.String("fc", string(fc)), zap.Stringer("policy", policy))
	}

	m.server.SetConnectionHandler(m.connectionHandler(handlers))

	if cfg.FileServiceEnabled() {
		m.server.SetFileAccessHandler(m.fileAccessHandler(handlers))
		m.log.Info("file services enabled", zap.String("base_path", cfg.BasePath()))
	}
	return nil
}

func (m *Manager) connectionHandler(h Handlers) ConnectionHandler {
	return func(peer string, connected bool) {
		defer func() {
			if r := recover(); r != nil {
				m.log.Error("connection handler panicked", zap.Any("panic", r))
			}
		}()
		h.OnConnectionEvent(peer, connected)
	}
}

// fileAccessHandler denies the request when the policy itself fails.
func (m *Manager) fileAccessHandler(h Handlers) FileAccessHandler {
	return func(op fileaccess.Operation, localFilename, otherFilename string) (allowed bool) {
		defer func() {
			if r := recover(); r != nil {
				m.log.Error("file access handler panicked", zap.Any("panic", r))
				allowed = false
			}
		}()
		return h.OnFileAccess(op, localFilename, otherFilename).Allowed()
	}
}

// Start binds the configured port. On failure the handle is destroyed and
// an error wrapping ErrStartFailed is returned.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateCreated:
	case StateDestroyed:
		return ErrDestroyed
	default:
		return ErrAlreadyStarted
	}

	m.setState(StateStarted)
	m.server.Start(m.port)
	if !m.server.IsRunning() {
		m.server.Destroy()
		m.setState(StateDestroyed)
		return fmt.Errorf("%w: port %d", ErrStartFailed, m.port)
	}

	m.setState(StateRunning)
	m.log.Info("server listening", zap.String("address", fmt.Sprintf("0.0.0.0:%d", m.port)))
	return nil
}

// Running reports whether the handle is in state running.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateRunning
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Publish writes one set of samples into the served model. It reports false
// when the server is not running.
func (m *Manager) Publish(samples simulation.Samples, ts simulation.Timestamp) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRunning {
		return false
	}
	m.server.PublishAnalog(samples, ts)
	return true
}

// Shutdown stops a running server and destroys the handle. It is safe to
// call on every exit path; Stop and Destroy each run at most once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateRunning:
		m.server.Stop()
		m.setState(StateStopped)
		fallthrough
	case StateCreated, StateStarted, StateStopped:
		m.server.Destroy()
		m.setState(StateDestroyed)
	case StateDestroyed:
	}
}

func (m *Manager) setState(s State) {
	m.state = s
	m.log.Debug("server state", zap.Stringer("state", s))
	if m.rec != nil {
		m.rec.ServerState(int(s))
	}
}
