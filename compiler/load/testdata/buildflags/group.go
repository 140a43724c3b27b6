//go:build !hidegroups

package buildflags

// Group is a set of users.
//
//repogen:repository
type Group struct {
	ID   int64
	Name string
}
