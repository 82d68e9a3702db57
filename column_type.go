package datatable

// ColumnType is a closed tag identifying the physical representation of a
// Column. Unlike the inheritance hierarchies of the systems this package
// draws from, the set of ColumnTypes is fixed and is switched over
// exhaustively rather than extended by subclassing.
type ColumnType int

const (
	// ColumnBool stores a single byte per row, 0/1, with the minimum
	// int8 value reserved as the missing-value sentinel.
	ColumnBool ColumnType = iota
	// ColumnInt8 stores a signed 8-bit integer per row.
	ColumnInt8
	// ColumnInt16 stores a signed 16-bit integer per row.
	ColumnInt16
	// ColumnInt32 stores a signed 32-bit integer per row.
	ColumnInt32
	// ColumnInt64 stores a signed 64-bit integer per row.
	ColumnInt64
	// ColumnFloat32 stores a 32-bit IEEE float per row; NaN is missing.
	ColumnFloat32
	// ColumnFloat64 stores a 64-bit IEEE float per row; NaN is missing.
	ColumnFloat64
	// ColumnString32 stores UTF-8 strings addressed by 32-bit offsets.
	ColumnString32
	// ColumnString64 stores UTF-8 strings addressed by 64-bit offsets.
	ColumnString64
)

// String produces a textual representation of a ColumnType, in the
// three-character stype-code convention used by the on-disk NFF format
// (see nff.Colspec): a width digit bracketed by a kind letter and a
// storage-class letter.
func (t ColumnType) String() string {
	switch t {
	case ColumnBool:
		return "b1v"
	case ColumnInt8:
		return "i1i"
	case ColumnInt16:
		return "i2i"
	case ColumnInt32:
		return "i4i"
	case ColumnInt64:
		return "i8i"
	case ColumnFloat32:
		return "f4r"
	case ColumnFloat64:
		return "f8r"
	case ColumnString32:
		return "s4v"
	case ColumnString64:
		return "s8v"
	default:
		return "???"
	}
}

// IsNumeric returns true iff this ColumnType can back a ColumnConvertor.
func (t ColumnType) IsNumeric() bool {
	switch t {
	case ColumnBool, ColumnInt8, ColumnInt16, ColumnInt32, ColumnInt64, ColumnFloat32, ColumnFloat64:
		return true
	default:
		return false
	}
}

// IsString returns true iff this ColumnType stores offset-indexed strings.
func (t ColumnType) IsString() bool {
	return t == ColumnString32 || t == ColumnString64
}

// StypeFromString parses a three-character stype code (as found in an NFF
// colspec) into a ColumnType, returning ok=false for unrecognized codes
// instead of erroring -- matching stype_from_string's "void sentinel on
// unknown" contract from spec.md §6.
func StypeFromString(code string) (t ColumnType, ok bool) {
	switch code {
	case "b1v":
		return ColumnBool, true
	case "i1i":
		return ColumnInt8, true
	case "i2i":
		return ColumnInt16, true
	case "i4i":
		return ColumnInt32, true
	case "i8i":
		return ColumnInt64, true
	case "f4r":
		return ColumnFloat32, true
	case "f8r":
		return ColumnFloat64, true
	case "s4v":
		return ColumnString32, true
	case "s8v":
		return ColumnString64, true
	default:
		return 0, false
	}
}
