package listusers

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// RegisteredUsers represents the query result containing all users.
type RegisteredUsers struct {
	Users []circulation.User
	Count int
}
