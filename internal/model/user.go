package model

import "time"

// User represents an application account as stored in the `users`
// table.  The Interest field keeps the raw delimited form written at
// signup; the recommendation ranker matches the trimmed string against
// festival categories, so splitting it here would change behavior.
// Handlers expose it as a list via SplitCategories/JoinCategories.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – display name.
//  Email    – unique email address used for login.
//  Password – stored credential (see utils.CredentialVerifier).
//  Interest – delimited category names the user cares about.
//  Admin    – 1 for administrators, 0 otherwise.
//  JoinedAt – signup timestamp.
type User struct {
	ID       uint64    // users.id
	Name     string    // users.name
	Email    string    // users.email
	Password string    // users.password
	Interest string    // users.interest
	Admin    int       // users.admin
	JoinedAt time.Time // users.join_date
}
