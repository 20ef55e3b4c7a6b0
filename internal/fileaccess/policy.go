package fileaccess

import (
	"fmt"

	"go.uber.org/zap"
)

// Operation is the kind of MMS file service a client requested.
type Operation int

const (
	OpReadDirectory Operation = iota
	OpOpen
	OpObtain
	OpDelete
	OpRename
)

func (o Operation) String() string {
	switch o {
	case OpReadDirectory:
		return "read-directory"
	case OpOpen:
		return "open"
	case OpObtain:
		return "obtain"
	case OpDelete:
		return "delete"
	case OpRename:
		return "rename"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// MmsFileServiceType codes as reported by the MMS server.
const (
	mmsFileReadDirectory = 0
	mmsFileOpen          = 1
	mmsFileObtain        = 2
	mmsFileDelete        = 3
	mmsFileRename        = 4
)

// ServiceOperation maps an MmsFileServiceType code to an Operation. Codes
// without a mapping keep their value, so Decide treats them as unknown.
func ServiceOperation(code int) Operation {
	switch code {
	case mmsFileReadDirectory:
		return OpReadDirectory
	case mmsFileOpen:
		return OpOpen
	case mmsFileObtain:
		return OpObtain
	case mmsFileDelete:
		return OpDelete
	case mmsFileRename:
		return OpRename
	default:
		return Operation(code)
	}
}

// Decision is the outcome of a file access request.
type Decision int

const (
	// Allow accepts a known non-destructive operation.
	Allow Decision = iota
	DenyRename
	DenyDelete
	// AllowOther accepts an operation kind the policy does not know.
	AllowOther
)

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d == Allow || d == AllowOther
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyRename:
		return "deny-rename"
	case DenyDelete:
		return "deny-delete"
	case AllowOther:
		return "allow-other"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Decide applies the policy: clients may not rename or delete files, every
// other operation is accepted. File names are deliberately not inspected.
func Decide(op Operation) Decision {
	switch op {
	case OpRename:
		return DenyRename
	case OpDelete:
		return DenyDelete
	case OpReadDirectory, OpOpen, OpObtain:
		return Allow
	default:
		return AllowOther
	}
}

// Recorder receives one observation per decision.
type Recorder interface {
	FileAccess(op, decision string)
}

// Policy logs every file access request and answers it with Decide.
type Policy struct {
	log *zap.Logger
	rec Recorder
}

// New returns a policy logging to log. rec may be nil.
func New(log *zap.Logger, rec Recorder) *Policy {
	if log == nil {
		log = zap.NewNop()
	}
	return &Policy{log: log, rec: rec}
}

// Check logs the request and returns the decision. A failure while logging
// or recording never changes the outcome.
func (p *Policy) Check(op Operation, localFilename, otherFilename string) Decision {
	p.logRequest(op, localFilename, otherFilename)
	d := Decide(op)
	p.record(op, d)
	return d
}

func (p *Policy) logRequest(op Operation, localFilename, otherFilename string) {
	defer func() {
		_ = recover()
	}()
	p.log.Info("file access request",
		zap.Stringer("operation", op),
		zap.String("local_file", localFilename),
		zap.String("other_file", otherFilename),
	)
}

func (p *Policy) record(op Operation, d Decision) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("recording file access decision failed", zap.Any("panic", r))
		}
	}()
	if !d.Allowed() {
		p.log.Info("file access denied", zap.Stringer("operation", op), zap.Stringer("decision", d))
	}
	if p.rec != nil {
		p.rec.FileAccess(op.String(), d.String())
	}
}
