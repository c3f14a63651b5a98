package models

import "time"

// RequestContext is the per-request state owned by the pipeline. It is a
// value type: every With* method returns an augmented copy and leaves the
// receiver untouched.
type RequestContext struct {
	requestTime time.Time
	cookies     map[string]string
	principal   *Principal
	account     *User
}

// RequestTime is the wall-clock time at which the request was received.
func (rc RequestContext) RequestTime() time.Time {
	return rc.requestTime
}

// Cookie returns the value of the named request cookie.
func (rc RequestContext) Cookie(name string) (string, bool) {
	v, ok := rc.cookies[name]
	return v, ok
}

// Principal returns the authenticated identity, if any.
func (rc RequestContext) Principal() (Principal, bool) {
	if rc.principal == nil {
		return Principal{}, false
	}

	return *rc.principal, true
}

// Account returns the user record loaded while authenticating.
func (rc RequestContext) Account() (User, bool) {
	if rc.account == nil {
		return User{}, false
	}

	return *rc.account, true
}

// WithRequestTime returns a copy carrying t as the request time.
func (rc RequestContext) WithRequestTime(t time.Time) RequestContext {
	rc.requestTime = t
	return rc
}

// WithCookies returns a copy carrying a private copy of cookies.
func (rc RequestContext) WithCookies(cookies map[string]string) RequestContext {
	cp := make(map[string]string, len(cookies))
	for k, v := range cookies {
		cp[k] = v
	}
	rc.cookies = cp
	return rc
}

// WithPrincipal returns a copy with the authenticated user attached.
func (rc RequestContext) WithPrincipal(user User) RequestContext {
	p := user.Principal()
	u := user
	rc.principal = &p
	rc.account = &u
	return rc
}
