package models

import "time"

// AuthToken is a signed session credential. It is not stored server-side;
// it is invalidated only by expiry or by a password change after IssuedAt.
type AuthToken struct {
	// SubjectID is the identifier of the user the token was issued for.
	SubjectID string `json:"-"`

	// IssuedAt is the "iat" claim.
	IssuedAt time.Time `json:"-"`

	// ExpiresAt is the "exp" claim.
	ExpiresAt time.Time `json:"-"`

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t AuthToken) String() string {
	return t.SignedString
}

// Principal is the authenticated identity attached to one request.
type Principal struct {
	ID                string
	Role              Role
	PasswordChangedAt *time.Time
}

// Session is the result of a successful signup, login or password change.
type Session struct {
	Token AuthToken
	User  User
}
