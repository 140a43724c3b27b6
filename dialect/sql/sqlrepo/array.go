package sqlrepo

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// integer lists the element types of integer arrays that pq.Array cannot
// scan into directly.
type integer interface {
	~int | ~int16 | ~int32 | ~int64 | ~uint16 | ~uint32
}

// IntArray returns a scanner reading an integer array column into dst.
// Elements are read as BIGINT and converted.
//
//	rows.Scan(&v.ID, sqlrepo.IntArray(&v.Points))
func IntArray[T integer](dst *[]T) sql.Scanner {
	return intArray[T]{dst}
}

type intArray[T integer] struct{ dst *[]T }

func (a intArray[T]) Scan(src any) error {
	var vs pq.Int64Array
	if err := vs.Scan(src); err != nil {
		return err
	}
	if vs == nil {
		*a.dst = nil
		return nil
	}
	out := make([]T, len(vs))
	for i, v := range vs {
		out[i] = T(v)
		if int64(out[i]) != v {
			return fmt.Errorf("sqlrepo: array element %d overflows %T", v, out[i])
		}
	}
	*a.dst = out
	return nil
}

// TimeArray returns a scanner reading a timestamp array column into dst.
func TimeArray(dst *[]time.Time) sql.Scanner {
	return timeArray{dst}
}

type timeArray struct{ dst *[]time.Time }

func (a timeArray) Scan(src any) error {
	var vs pq.StringArray
	if err := vs.Scan(src); err != nil {
		return err
	}
	if vs == nil {
		*a.dst = nil
		return nil
	}
	out := make([]time.Time, len(vs))
	for i, s := range vs {
		t, err := pq.ParseTimestamp(nil, s)
		if err != nil {
			return fmt.Errorf("sqlrepo: array element %q: %w", s, err)
		}
		out[i] = t
	}
	*a.dst = out
	return nil
}
