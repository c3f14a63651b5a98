package models

import "time"

// User represents an account entity used for authentication and authorization.
// Credential fields are never serialized to clients.
type User struct {
	// ID is the server-assigned identifier (UUID v7).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the unique login identifier, stored lower-cased.
	Email string `json:"email"`

	// Photo is the file name of the avatar served from the static directory.
	Photo string `json:"photo"`

	// Role controls which guarded routes the user may call.
	Role Role `json:"role"`

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string `json:"-"`

	// PasswordChangedAt is set on every password change. Tokens issued
	// before this moment are rejected.
	PasswordChangedAt *time.Time `json:"-"`

	// PasswordResetToken is the sha256 hex digest of the reset token sent by email.
	PasswordResetToken *string `json:"-"`

	// PasswordResetExpires is the moment the reset token stops being accepted.
	PasswordResetExpires *time.Time `json:"-"`

	// Active is false for accounts deleted by their owners.
	Active bool `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// ChangedPasswordAfter reports whether the password was changed after a
// token issued at issuedAt. The comparison uses whole seconds, the
// resolution of the token's "iat" claim.
func (u User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}

	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// Principal returns the request-scoped identity derived from u.
func (u User) Principal() Principal {
	return Principal{
		ID:                u.ID,
		Role:              u.Role,
		PasswordChangedAt: u.PasswordChangedAt,
	}
}

// SignupRequest is the payload of POST /api/v1/users/signup.
type SignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginRequest is the payload of POST /api/v1/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest is the payload of POST /api/v1/users/forgotPassword.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the payload of PATCH /api/v1/users/resetPassword/{token}.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdatePasswordRequest is the payload of PATCH /api/v1/users/updateMyPassword.
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UserUpdate is a partial update of a user record. Nil fields are left untouched.
type UserUpdate struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Photo  *string `json:"photo,omitempty"`
	Role   *Role   `json:"role,omitempty" validate:"omitempty,oneof=user guide lead-guide admin"`
	Active *bool   `json:"active,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Photo == nil && u.Role == nil && u.Active == nil
}

// UpdateMeRequest is the payload of PATCH /api/v1/users/updateMe. Only name
// and email are applied; password fields are rejected.
type UpdateMeRequest struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Password        *string `json:"password,omitempty"`
	PasswordConfirm *string `json:"passwordConfirm,omitempty"`
}

// HasPassword reports whether the request tries to change the password.
func (r UpdateMeRequest) HasPassword() bool {
	return r.Password != nil || r.PasswordConfirm != nil
}

// UserUpdate keeps only the fields a user may change on their own account.
func (r UpdateMeRequest) UserUpdate() UserUpdate {
	return UserUpdate{Name: r.Name, Email: r.Email}
}
