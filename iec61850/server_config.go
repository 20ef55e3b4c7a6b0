package iec61850

// #include <stdlib.h>
// #include <iec61850_server.h>
import "C"

import (
	"fmt"
	"unsafe"

	"gopkg.in/validator.v2"
)

// ServerConfig mirrors IedServerConfig. It is only needed while the server
// instance is being created.
type ServerConfig struct {
	// ReportBufferSize is the buffer size for buffered report control blocks in bytes.
	ReportBufferSize int `validate:"min=0"`
	// Edition sets the stack compliance. The data model has to match it.
	Edition Edition `validate:"max=2"`
	// FileServiceBasePath is the root of the MMS file services.
	FileServiceBasePath string `validate:"nonzero"`
	EnableFileService   bool
	// EnableDynamicDataSetService allows clients to create and delete data sets.
	EnableDynamicDataSetService bool
	EnableLogService            bool
	// MaxConnections limits concurrent MMS client connections.
	MaxConnections int `validate:"min=1"`
}

// NewServerConfig returns a config with the libiec61850 defaults.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		ReportBufferSize:            65536,
		Edition:                     EDITION_2,
		FileServiceBasePath:         "./vmd-filestore/",
		EnableFileService:           true,
		EnableDynamicDataSetService: true,
		EnableLogService:            true,
		MaxConnections:              5,
	}
}

// Validate checks the config before it is handed to the stack.
func (c *ServerConfig) Validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}
	return nil
}

// toC builds the native config object. The caller must release it with
// IedServerConfig_destroy once the server has been created.
func (c *ServerConfig) toC() C.IedServerConfig {
	config := C.IedServerConfig_create()

	C.IedServerConfig_setReportBufferSize(config, C.int(c.ReportBufferSize))
	C.IedServerConfig_setEdition(config, C.uint8_t(c.Edition))

	cPath := Go2CStr(c.FileServiceBasePath)
	defer C.free(unsafe.Pointer(cPath))
	C.IedServerConfig_setFileServiceBasePath(config, cPath)

	C.IedServerConfig_enableFileService(config, C.bool(c.EnableFileService))
	C.IedServerConfig_enableDynamicDataSetService(config, C.bool(c.EnableDynamicDataSetService))
	C.IedServerConfig_enableLogService(config, C.bool(c.EnableLogService))
	C.IedServerConfig_setMaxMmsConnections(config, C.int(c.MaxConnections))
	return config
}
