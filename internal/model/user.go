package model

import "time"

// Identity represents an application user record as stored in the `users`
// table.  The json tags are omitted because handlers define their own
// response types and PasswordHash must never be serialized.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of client, front_desk or admin; immutable.
//  CreatedAt    – timestamp of creation.
type Identity struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
}
