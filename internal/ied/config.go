package ied

// Identity is returned to clients by the MMS identify service.
type Identity struct {
	Vendor   string
	Model    string
	Revision string
}

// ServerConfig is everything needed to build the server instance. It is not
// retained after the server has been created.
type ServerConfig struct {
	Port int
	// ReportBufferSize is the buffered report capacity in bytes.
	ReportBufferSize int
	// Edition is the IEC 61850 edition, "1", "2" or "2.1".
	Edition string
	// FilesDir enables the file services rooted at it. When empty, file
	// services stay disabled and FileServiceBasePath is used as a placeholder.
	FilesDir            string
	FileServiceBasePath string
	DynamicDataSets     bool
	LogService          bool
	MaxConnections      int
	// WriteAccess overrides the server default write policy per functional constraint.
	WriteAccess map[FunctionalConstraint]AccessPolicy
	Identity    Identity
}

// DefaultServerConfig returns the device defaults. Writes with FC=DC are
// allowed so clients can update name plate descriptions.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:                102,
		ReportBufferSize:    200000,
		Edition:             "2",
		FileServiceBasePath: "./tmp/",
		DynamicDataSets:     true,
		LogService:          false,
		MaxConnections:      5,
		WriteAccess: map[FunctionalConstraint]AccessPolicy{
			FCDescription: AccessAllow,
		},
		Identity: Identity{Vendor: "Cappy", Model: "custom ied", Revision: "0.1"},
	}
}

// FileServiceEnabled reports whether file services are served.
func (c ServerConfig) FileServiceEnabled() bool {
	return c.FilesDir != ""
}

// BasePath returns the root of the file services.
func (c ServerConfig) BasePath() string {
	if c.FilesDir != "" {
		return c.FilesDir
	}
	return c.FileServiceBasePath
}
