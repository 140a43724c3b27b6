package buildflags

// User is a member of groups.
//
//repogen:repository
type User struct {
	ID   int64
	Name string
}
