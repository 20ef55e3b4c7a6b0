// Package logger builds the zap logger used by every component of the device.
//
// Level "debug" selects the zap development preset, everything else the
// production preset with the given level. Format is "console" for humans or
// "json" for log shippers.
package logger
