package iec61850

// #include <stdlib.h>
// #include <iec61850_server.h>
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// IedServer wraps a libiec61850 IedServer instance bound to an IedModel.
// Destroy must be called exactly once; Stop must precede it when the
// server was started.
type IedServer struct {
	server C.IedServer

	connHandlerId int32
	fileHandlerId int32
}

// NewServerWithConfig creates a server for model. The config is only read
// during the call.
func NewServerWithConfig(cfg *ServerConfig, model *IedModel) (*IedServer, error) {
	if model == nil || model.model == nil {
		return nil, errors.New("NewServerWithConfig: nil model")
	}
	if cfg == nil {
		cfg = NewServerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	config := cfg.toC()
	defer C.IedServerConfig_destroy(config)

	server := C.IedServer_createWithConfig(model.model, nil, config)
	if server == nil {
		return nil, fmt.Errorf("IedServer_createWithConfig returned NULL")
	}
	return &IedServer{server: server}, nil
}

// SetServerIdentity sets the values returned by the MMS identify service.
func (s *IedServer) SetServerIdentity(vendor, model, revision string) {
	cVendor := Go2CStr(vendor)
	defer C.free(unsafe.Pointer(cVendor))
	cModel := Go2CStr(model)
	defer C.free(unsafe.Pointer(cModel))
	cRevision := Go2CStr(revision)
	defer C.free(unsafe.Pointer(cRevision))

	C.IedServer_setServerIdentity(s.server, cVendor, cModel, cRevision)
}

// SetWriteAccessPolicy overrides the default write policy for all data
// attributes with the given functional constraint. By default writes to
// FC=DC and FC=CF are denied.
func (s *IedServer) SetWriteAccessPolicy(fc FC, policy AccessPolicy) {
	C.IedServer_setWriteAccessPolicy(s.server, C.FunctionalConstraint(fc), C.AccessPolicy(policy))
}

// Start opens the listening socket on tcpPort. Use IsRunning to check
// whether the server actually came up.
func (s *IedServer) Start(tcpPort int) {
	C.IedServer_start(s.server, C.int(tcpPort))
}

// IsRunning reports whether the server is listening for clients.
func (s *IedServer) IsRunning() bool {
	if s.server == nil {
		return false
	}
	return bool(C.IedServer_isRunning(s.server))
}

// Stop closes the server socket and all client connections.
func (s *IedServer) Stop() {
	C.IedServer_stop(s.server)
}

// Destroy releases all native resources of the server. Calling it twice is a no-op.
func (s *IedServer) Destroy() {
	if s.server == nil {
		return
	}
	C.IedServer_destroy(s.server)
	s.server = nil

	unregisterConnectionIndication(s.connHandlerId)
	unregisterFileAccess(s.fileHandlerId)
	s.connHandlerId = 0
	s.fileHandlerId = 0
}

// LockDataModel blocks client access to the data model until UnlockDataModel.
// Group attribute updates that belong together between the two calls.
func (s *IedServer) LockDataModel() {
	C.IedServer_lockDataModel(s.server)
}

func (s *IedServer) UnlockDataModel() {
	C.IedServer_unlockDataModel(s.server)
}

// UpdateFloatAttributeValue writes a FLOAT32 attribute and triggers reports.
func (s *IedServer) UpdateFloatAttributeValue(node *ModelNode, value float32) {
	if node == nil {
		return
	}
	C.IedServer_updateFloatAttributeValue(s.server, node.dataAttribute(), C.float(value))
}

// UpdateTimestampAttributeValue writes a timestamp attribute including its
// time quality flags.
func (s *IedServer) UpdateTimestampAttributeValue(node *ModelNode, ts Timestamp) {
	if node == nil {
		return
	}
	var cTs C.Timestamp
	ts.toC(&cTs)
	C.IedServer_updateTimestampAttributeValue(s.server, node.dataAttribute(), &cTs)
}
