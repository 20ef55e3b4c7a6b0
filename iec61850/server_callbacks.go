package iec61850

/*
#include <iec61850_server.h>
#include <mms_server.h>

extern void connectionIndicationBridge(IedServer self, ClientConnection connection, bool connected, void* parameter);
extern MmsError fileAccessBridge(void* parameter, MmsServerConnection connection, MmsFileServiceType service, char* localFilename, char* otherFilename);
*/
import "C"

import (
	"sync"
	"unsafe"
)

// ClientConnection identifies the peer behind a callback.
type ClientConnection struct {
	PeerAddress string
}

// ConnectionIndicationHandler is called by the stack whenever a client
// connection is opened or closed. It runs on a stack thread and must not block.
type ConnectionIndicationHandler func(s *IedServer, conn ClientConnection, connected bool)

// FileAccessHandler decides whether an MMS file service request is allowed.
// otherFilename is only set for rename requests.
type FileAccessHandler func(s *IedServer, conn ClientConnection, service FileServiceType, localFilename, otherFilename string) bool

type connectionIndicationEntry struct {
	server  *IedServer
	handler ConnectionIndicationHandler
}

type fileAccessEntry struct {
	server  *IedServer
	handler FileAccessHandler
}

var (
	connectionIndicationMu       sync.RWMutex
	connectionIndicationHandlers = make(map[int32]connectionIndicationEntry)

	fileAccessMu       sync.RWMutex
	fileAccessHandlers = make(map[int32]fileAccessEntry)
)

//export connectionIndicationBridge
func connectionIndicationBridge(_ C.IedServer, connection C.ClientConnection, connected C.bool, parameter unsafe.Pointer) {
	cbID := pointerToInt(parameter)
	connectionIndicationMu.RLock()
	entry, ok := connectionIndicationHandlers[cbID]
	connectionIndicationMu.RUnlock()
	if !ok || entry.handler == nil {
		return
	}

	var conn ClientConnection
	if connection != nil {
		conn.PeerAddress = C2GoStr(C.ClientConnection_getPeerAddress(connection))
	}
	entry.handler(entry.server, conn, bool(connected))
}

//export fileAccessBridge
func fileAccessBridge(parameter unsafe.Pointer, connection C.MmsServerConnection, service C.MmsFileServiceType, localFilename *C.char, otherFilename *C.char) C.MmsError {
	cbID := pointerToInt(parameter)
	fileAccessMu.RLock()
	entry, ok := fileAccessHandlers[cbID]
	fileAccessMu.RUnlock()
	if !ok || entry.handler == nil {
		return C.MmsError(C.MMS_ERROR_NONE)
	}

	var conn ClientConnection
	if connection != nil {
		conn.PeerAddress = C2GoStr(C.MmsServerConnection_getClientAddress(connection))
	}
	// file names are passed through as filesystem bytes, not ISO-8859-1
	if entry.handler(entry.server, conn, FileServiceType(service), C.GoString(localFilename), C.GoString(otherFilename)) {
		return C.MmsError(C.MMS_ERROR_NONE)
	}
	return C.MmsError(C.MMS_ERROR_FILE_FILE_ACCESS_DENIED)
}

// SetConnectionIndicationHandler installs handler for connection open/close
// events. Calling it again replaces the previous handler.
func (s *IedServer) SetConnectionIndicationHandler(handler ConnectionIndicationHandler) {
	if handler == nil {
		return
	}
	unregisterConnectionIndication(s.connHandlerId)

	cbID := callbackIdGen.Add(1)
	s.connHandlerId = cbID

	connectionIndicationMu.Lock()
	connectionIndicationHandlers[cbID] = connectionIndicationEntry{server: s, handler: handler}
	connectionIndicationMu.Unlock()

	cPtr := intToPointerBug58625(cbID)
	C.IedServer_setConnectionIndicationHandler(s.server, (C.IedConnectionIndicationHandler)(C.connectionIndicationBridge), cPtr)
}

// SetFileAccessHandler installs handler on the MMS server behind s. Without
// a handler every file service request is accepted by the stack.
func (s *IedServer) SetFileAccessHandler(handler FileAccessHandler) {
	if handler == nil {
		return
	}
	unregisterFileAccess(s.fileHandlerId)

	cbID := callbackIdGen.Add(1)
	s.fileHandlerId = cbID

	fileAccessMu.Lock()
	fileAccessHandlers[cbID] = fileAccessEntry{server: s, handler: handler}
	fileAccessMu.Unlock()

	mmsServer := C.IedServer_getMmsServer(s.server)
	cPtr := intToPointerBug58625(cbID)
	C.MmsServer_installFileAccessHandler(mmsServer, (C.MmsFileAccessHandler)(C.fileAccessBridge), cPtr)
}

func unregisterConnectionIndication(cbID int32) {
	if cbID == 0 {
		return
	}
	connectionIndicationMu.Lock()
	delete(connectionIndicationHandlers, cbID)
	connectionIndicationMu.Unlock()
}

func unregisterFileAccess(cbID int32) {
	if cbID == 0 {
		return
	}
	fileAccessMu.Lock()
	delete(fileAccessHandlers, cbID)
	fileAccessMu.Unlock()
}
