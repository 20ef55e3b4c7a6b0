// Package iedtest provides a testify mock of ied.Server.
package iedtest

import (
	"sync"

	"github.com/marrasen/customied/internal/fileaccess"
	"github.com/marrasen/customied/internal/ied"
	"github.com/marrasen/customied/internal/simulation"

	"github.com/stretchr/testify/mock"
)

// Server is a mock ied.Server. Installed handlers are captured so tests can
// invoke them like the protocol stack would.
type Server struct {
	mock.Mock

	mu          sync.Mutex
	connHandler ied.ConnectionHandler
	fileHandler ied.FileAccessHandler
}

var _ ied.Server = (*Server)(nil)

func (s *Server) SetServerIdentity(vendor, model, revision string) {
	s.Called(vendor, model, revision)
}

func (s *Server) SetWriteAccessPolicy(fc ied.FunctionalConstraint, policy ied.AccessPolicy) error {
	args := s.Called(fc, policy)
	return args.Error(0)
}

func (s *Server) SetConnectionHandler(h ied.ConnectionHandler) {
	s.mu.Lock()
	s.connHandler = h
	s.mu.Unlock()
	s.Called(mock.Anything)
}

func (s *Server) SetFileAccessHandler(h ied.FileAccessHandler) {
	s.mu.Lock()
	s.fileHandler = h
	s.mu.Unlock()
	s.Called(mock.Anything)
}

func (s *Server) Start(port int) {
	s.Called(port)
}

func (s *Server) IsRunning() bool {
	return s.Called().Bool(0)
}

func (s *Server) Stop() {
	s.Called()
}

func (s *Server) Destroy() {
	s.Called()
}

func (s *Server) PublishAnalog(samples simulation.Samples, ts simulation.Timestamp) {
	s.Called(samples, ts)
}

// Connect simulates a client connection transition.
func (s *Server) Connect(peer string, connected bool) {
	s.mu.Lock()
	h := s.connHandler
	s.mu.Unlock()
	if h != nil {
		h(peer, connected)
	}
}

// FileAccess simulates a file service request. ok is false when no file
// access handler was installed.
func (s *Server) FileAccess(op fileaccess.Operation, localFilename, otherFilename string) (allowed, ok bool) {
	s.mu.Lock()
	h := s.fileHandler
	s.mu.Unlock()
	if h == nil {
		return false, false
	}
	return h(op, localFilename, otherFilename), true
}

// ExpectConfigure sets up the calls made while the server is configured.
// withFiles controls whether a file access handler is expected.
func (s *Server) ExpectConfigure(withFiles bool) {
	s.On("SetServerIdentity", mock.Anything, mock.Anything, mock.Anything).Return()
	s.On("SetWriteAccessPolicy", mock.Anything, mock.Anything).Return(nil)
	s.On("SetConnectionHandler", mock.Anything).Return()
	if withFiles {
		s.On("SetFileAccessHandler", mock.Anything).Return()
	}
}

// Factory returns an ied.Factory handing out s and recording the config it got.
func (s *Server) Factory(got *ied.ServerConfig) ied.Factory {
	return func(cfg ied.ServerConfig) (ied.Server, error) {
		if got != nil {
			*got = cfg
		}
		return s, nil
	}
}
