package user

// User represents a user record owned by the remote user-management API.
type User struct {
	ID        int64  `json:"id"`         // ID is the unique identifier assigned by the remote API
	FirstName string `json:"first_name"` // FirstName is editable
	LastName  string `json:"last_name"`  // LastName is editable
	Email     string `json:"email"`      // Email is editable
	Avatar    string `json:"avatar"`     // Avatar is the URL of the user's picture
}

// Patch carries the editable fields sent with an update.
type Patch struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Apply returns a copy of u with the patched fields.
func (p Patch) Apply(u User) User {
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Email = p.Email
	return u
}
