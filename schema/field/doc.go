// Package field maps declared Go field types onto PostgreSQL storage types.
//
// Every persisted field of a repository record must resolve to one entry of
// a fixed table:
//
//	integer     int, int16, int32, int64, uint16, uint32
//	float       float32, float64
//	text        string
//	boolean     bool
//	timestamp   time.Time
//	uuid        uuid.UUID
//
// Any of these may be wrapped once, either as an optional column (*T) or as
// a list column ([]T, stored as a PostgreSQL array). Maps, structs,
// interfaces, byte slices and nested wrappers have no category; store such
// data as JSON-encoded text instead.
//
//	info, err := field.ParseType("*time.Time")
//	// info.Type == field.TypeTime, info.Optional == true
package field
