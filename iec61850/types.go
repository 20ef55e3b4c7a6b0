package iec61850

import "fmt"

type MmsType int

// data types
const (
	Array MmsType = iota
	Structure
	Boolean
	BitString
	Integer
	Unsigned
	Float
	OctetString
	VisibleString
	GeneralizedTime
	BinaryTime
	Bcd
	ObjId
	String
	UTCTime
	DataAccessError
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
)

// FC is an IEC 61850 functional constraint. Values must match the C enum
// FunctionalConstraint.
type FC int

const (
	ST FC = iota // Status information
	MX           // Measurands - analog values
	SP           // Setpoint
	SV           // Substitution
	CF           // Configuration
	DC           // Description
	SG           // Setting group
	SE           // Setting group editable
	SR           // Service response / Service tracking
	OR           // Operate received
	BL           // Blocking
	EX           // Extended definition
	CO           // Control
	US           // Unicast SV
	MS           // Multicast SV
	RP           // Unbuffered report
	BR           // Buffered report
	LG           // Log control blocks
	GO           // Goose control blocks

	ALL  FC = 99
	NONE FC = -1
)

// AccessPolicy maps to libiec61850 AccessPolicy
// ACCESS_POLICY_ALLOW allows writes, ACCESS_POLICY_DENY denies writes for given FC
// Values must match the C enum ordering.
type AccessPolicy int

const (
	ACCESS_POLICY_ALLOW AccessPolicy = iota
	ACCESS_POLICY_DENY
)

// Edition selects the compliance level of the server stack.
// Values match IEC_61850_EDITION_* from iec61850_common.h.
type Edition uint8

const (
	EDITION_1 Edition = iota
	EDITION_2
	EDITION_2_1
)

// EditionFromString parses "1", "2" or "2.1".
func EditionFromString(s string) (Edition, error) {
	switch s {
	case "1", "1.0":
		return EDITION_1, nil
	case "2", "2.0":
		return EDITION_2, nil
	case "2.1":
		return EDITION_2_1, nil
	}
	return 0, fmt.Errorf("unknown IEC 61850 edition %q", s)
}

func (e Edition) String() string {
	switch e {
	case EDITION_1:
		return "1"
	case EDITION_2:
		return "2"
	case EDITION_2_1:
		return "2.1"
	default:
		return fmt.Sprintf("Edition(%d)", uint8(e))
	}
}

// FileServiceType is the MMS file service a client requested.
// Values match MmsFileServiceType from mms_server.h.
type FileServiceType int

const (
	FILE_ACCESS_TYPE_READ_DIRECTORY FileServiceType = iota
	FILE_ACCESS_TYPE_OPEN
	FILE_ACCESS_TYPE_OBTAIN
	FILE_ACCESS_TYPE_DELETE
	FILE_ACCESS_TYPE_RENAME
)

func (t FileServiceType) String() string {
	switch t {
	case FILE_ACCESS_TYPE_READ_DIRECTORY:
		return "read-directory"
	case FILE_ACCESS_TYPE_OPEN:
		return "open"
	case FILE_ACCESS_TYPE_OBTAIN:
		return "obtain"
	case FILE_ACCESS_TYPE_DELETE:
		return "delete"
	case FILE_ACCESS_TYPE_RENAME:
		return "rename"
	default:
		return fmt.Sprintf("FileServiceType(%d)", int(t))
	}
}
