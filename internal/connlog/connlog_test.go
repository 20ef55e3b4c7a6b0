package connlog_test

import (
	"testing"

	"github.com/marrasen/customied/internal/connlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorderFunc func(connected bool)

func (f recorderFunc) ConnectionEvent(connected bool) { f(connected) }

func TestLogger_OnConnectionEvent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var events []bool
	l := connlog.New(zap.New(core), recorderFunc(func(connected bool) {
		events = append(events, connected)
	}))

	l.OnConnectionEvent("192.168.1.10:50211", true)
	l.OnConnectionEvent("192.168.1.10:50211", false)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Connection opened", entries[0].Message)
	assert.Equal(t, "192.168.1.10:50211", entries[0].ContextMap()["peer"])
	assert.Equal(t, "Connection closed", entries[1].Message)
	assert.Equal(t, false, entries[1].ContextMap()["connected"])
	assert.Equal(t, []bool{true, false}, events)
}

func TestLogger_SwallowsRecorderPanic(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := connlog.New(zap.New(core), recorderFunc(func(bool) {
		panic("boom")
	}))

	assert.NotPanics(t, func() {
		l.OnConnectionEvent("", true)
	})
	assert.Equal(t, 1, logs.FilterMessage("connection event handler failed").Len())
}

func TestLogger_NilDependencies(t *testing.T) {
	l := connlog.New(nil, nil)
	assert.NotPanics(t, func() {
		l.OnConnectionEvent("peer", true)
		l.OnConnectionEvent("peer", false)
	})
}
