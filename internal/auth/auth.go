package auth

import "crypto/subtle"

// Authenticator gates the editor login. The production implementation is a
// single shared credential pair; the interface exists so a real identity
// provider can replace it without touching the editor state machine.
type Authenticator interface {
	Verify(login, password string) bool
}

// Static checks against one fixed login/password pair in constant time.
type Static struct {
	login    string
	password string
}

func NewStatic(login, password string) *Static {
	return &Static{login: login, password: password}
}

func (s *Static) Verify(login, password string) bool {
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(s.login)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	return loginOK && passwordOK
}
