package iec61850

import "fmt"

func mmsTypeName(t MmsType) string {
	switch t {
	case Array:
		return "Array"
	case Structure:
		return "Structure"
	case Boolean:
		return "Boolean"
	case BitString:
		return "BitString"
	case Integer:
		return "Integer"
	case Unsigned:
		return "Unsigned"
	case Float:
		return "Float"
	case OctetString:
		return "OctetString"
	case VisibleString:
		return "VisibleString"
	case GeneralizedTime:
		return "GeneralizedTime"
	case BinaryTime:
		return "BinaryTime"
	case Bcd:
		return "Bcd"
	case ObjId:
		return "ObjId"
	case String:
		return "String"
	case UTCTime:
		return "UTCTime"
	case DataAccessError:
		return "DataAccessError"
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Uint8:
		return "Uint8"
	case Uint16:
		return "Uint16"
	case Uint32:
		return "Uint32"
	default:
		return fmt.Sprintf("MmsType(%d)", int(t))
	}
}

func (mt MmsType) String() string {
	return mmsTypeName(mt)
}
