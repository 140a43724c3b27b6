package failure

//repogen:repository
type User struct {
	ID   int64
	Name string
