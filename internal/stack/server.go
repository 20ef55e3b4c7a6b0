// Package stack binds ied.Server to the libiec61850 server.
package stack

import (
	"fmt"

	"github.com/marrasen/customied/iec61850"
	"github.com/marrasen/customied/internal/fileaccess"
	"github.com/marrasen/customied/internal/ied"
	"github.com/marrasen/customied/internal/simulation"

	"go.uber.org/zap"
)

type analogNodes struct {
	mag *iec61850.ModelNode
	t   *iec61850.ModelNode
}

// Server adapts an iec61850.IedServer to ied.Server.
type Server struct {
	srv    *iec61850.IedServer
	log    *zap.Logger
	analog [simulation.Channels]analogNodes
}

var _ ied.Server = (*Server)(nil)

// NewFactory returns an ied.Factory creating servers for model. analogRefs
// name the data objects receiving the simulated channels; each gets its
// value written to <ref>.mag.f and its timestamp to <ref>.t.
func NewFactory(model *iec61850.IedModel, analogRefs []string, log *zap.Logger) ied.Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return func(cfg ied.ServerConfig) (ied.Server, error) {
		return newServer(model, analogRefs, cfg, log)
	}
}

func newServer(model *iec61850.IedModel, analogRefs []string, cfg ied.ServerConfig, log *zap.Logger) (*Server, error) {
	if len(analogRefs) > simulation.Channels {
		return nil, fmt.Errorf("stack: %d analog references, at most %d supported", len(analogRefs), simulation.Channels)
	}

	edition, err := iec61850.EditionFromString(cfg.Edition)
	if err != nil {
		return nil, fmt.Errorf("stack: %w", err)
	}

	sc := iec61850.NewServerConfig()
	sc.ReportBufferSize = cfg.ReportBufferSize
	sc.Edition = edition
	sc.FileServiceBasePath = cfg.BasePath()
	sc.EnableFileService = cfg.FileServiceEnabled()
	sc.EnableDynamicDataSetService = cfg.DynamicDataSets
	sc.EnableLogService = cfg.LogService
	sc.MaxConnections = cfg.MaxConnections

	srv, err := iec61850.NewServerWithConfig(sc, model)
	if err != nil {
		return nil, fmt.Errorf("stack: %w", err)
	}

	log.Info("server created",
		zap.Stringer("edition", edition),
		zap.Int("max_connections", sc.MaxConnections),
		zap.Bool("file_service", sc.EnableFileService),
	)

	s := &Server{srv: srv, log: log}
	dm := model.DataModel()
	for i, ref := range analogRefs {
		for _, attr := range []string{ref + ".mag.f", ref + ".t"} {
			if da, ok := dm.Find(attr); ok {
				log.Debug("publishing data attribute",
					zap.String("reference", attr),
					zap.Stringer("fc", da.FC),
					zap.Stringer("type", da.Type),
				)
			}
		}
		s.analog[i] = analogNodes{
			mag: s.lookup(model, ref+".mag.f"),
			t:   s.lookup(model, ref+".t"),
		}
	}
	return s, nil
}

func (s *Server) lookup(model *iec61850.IedModel, ref string) *iec61850.ModelNode {
	node := model.GetModelNodeByObjectReference(ref)
	if node == nil || !node.IsDataAttribute() {
		s.log.Warn("data attribute not found in model, channel will not be published", zap.String("reference", ref))
		return nil
	}
	return node
}

func (s *Server) SetServerIdentity(vendor, model, revision string) {
	s.srv.SetServerIdentity(vendor, model, revision)
}

func (s *Server) SetWriteAccessPolicy(fc ied.FunctionalConstraint, policy ied.AccessPolicy) error {
	cfc := iec61850.FunctionalConstraintFromString(string(fc))
	if cfc == iec61850.NONE {
		return fmt.Errorf("stack: unknown functional constraint %q", fc)
	}
	p := iec61850.ACCESS_POLICY_ALLOW
	if policy == ied.AccessDeny {
		p = iec61850.ACCESS_POLICY_DENY
	}
	s.srv.SetWriteAccessPolicy(cfc, p)
	return nil
}

func (s *Server) SetConnectionHandler(h ied.ConnectionHandler) {
	s.srv.SetConnectionIndicationHandler(func(_ *iec61850.IedServer, conn iec61850.ClientConnection, connected bool) {
		h(conn.PeerAddress, connected)
	})
}

func (s *Server) SetFileAccessHandler(h ied.FileAccessHandler) {
	s.srv.SetFileAccessHandler(func(_ *iec61850.IedServer, conn iec61850.ClientConnection, service iec61850.FileServiceType, localFilename, otherFilename string) bool {
		s.log.Debug("file service", zap.Stringer("service", service), zap.String("peer", conn.PeerAddress))
		return h(fileaccess.ServiceOperation(int(service)), localFilename, otherFilename)
	})
}

func (s *Server) Start(port int) {
	s.srv.Start(port)
}

func (s *Server) IsRunning() bool {
	return s.srv.IsRunning()
}

func (s *Server) Stop() {
	s.srv.Stop()
}

func (s *Server) Destroy() {
	s.srv.Destroy()
}

// PublishAnalog writes all channels under one data model lock so clients
// never see a partially updated set.
func (s *Server) PublishAnalog(samples simulation.Samples, ts simulation.Timestamp) {
	its := iec61850.Timestamp{
		TimeMs:               ts.Milliseconds,
		LeapSecondKnown:      ts.LeapSecondKnown,
		ClockNotSynchronized: ts.ClockNotSynchronized,
	}

	s.srv.LockDataModel()
	defer s.srv.UnlockDataModel()

	for i, n := range s.analog {
		s.srv.UpdateTimestampAttributeValue(n.t, its)
		s.srv.UpdateFloatAttributeValue(n.mag, float32(samples[i]))
	}
}
