package records

import (
	"time"

	guuid "github.com/google/uuid"
)

// User is an account.
//
//repogen:repository soft_delete searchable=name,email
//repogen:repository filterable=status
type User struct {
	ID        int64
	Name      string
	Email     string `repo:"column=email_address"`
	Status    string
	Token     guuid.UUID
	Secret    string `repo:"-"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Session is not a repository record.
type Session struct {
	ID int64
}

//repogen:repository table=post_entries
type Post struct {
	ID     int64 `repo:"primary_key"`
	Title  string
	Tags   []string
	Rating *float64
}
