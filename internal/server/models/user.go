package models

import "time"

// User is the stored credential record. Verifier holds the password hasher
// output and never the plaintext.
type User struct {
	ID             string
	UserName       string
	Verifier       string
	RecoveryAnswer string
	CreatedAt      time.Time
}
