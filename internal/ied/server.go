package ied

import (
	"github.com/marrasen/customied/internal/fileaccess"
	"github.com/marrasen/customied/internal/simulation"
)

// FunctionalConstraint is the IEC 61850 abbreviation of a functional
// constraint, e.g. "DC" or "CF".
type FunctionalConstraint string

const (
	FCDescription   FunctionalConstraint = "DC"
	FCConfiguration FunctionalConstraint = "CF"
)

// AccessPolicy is the default write policy for a functional constraint.
type AccessPolicy int

const (
	AccessAllow AccessPolicy = iota
	AccessDeny
)

func (p AccessPolicy) String() string {
	if p == AccessAllow {
		return "allow"
	}
	return "deny"
}

// ConnectionHandler is invoked by the server on every client connection
// transition.
type ConnectionHandler func(peer string, connected bool)

// FileAccessHandler is invoked by the server for every file service request
// and returns whether it is allowed.
type FileAccessHandler func(op fileaccess.Operation, localFilename, otherFilename string) bool

// Server is the protocol server component. Implementations run their own
// threads for client handling; callbacks may be invoked from any of them.
type Server interface {
	SetServerIdentity(vendor, model, revision string)
	SetWriteAccessPolicy(fc FunctionalConstraint, policy AccessPolicy) error
	SetConnectionHandler(h ConnectionHandler)
	SetFileAccessHandler(h FileAccessHandler)

	// Start begins listening on port. Whether it succeeded is reported by IsRunning.
	Start(port int)
	IsRunning() bool
	Stop()
	Destroy()

	// PublishAnalog writes the samples and their timestamp into the served model.
	PublishAnalog(samples simulation.Samples, ts simulation.Timestamp)
}

// Factory creates a server instance from cfg bound to the device data model.
type Factory func(cfg ServerConfig) (Server, error)

// Handlers are the device callbacks wired onto the server before it starts.
type Handlers interface {
	OnConnectionEvent(peer string, connected bool)
	OnFileAccess(op fileaccess.Operation, localFilename, otherFilename string) fileaccess.Decision
}
