package domain

import "strings"

// ExternalIdentity carries the claims returned by the identity provider for
// a validated bearer token. It is ephemeral and trusted only when produced
// by the provider's introspection endpoint.
type ExternalIdentity struct {
	Subject     string
	Email       string
	DisplayName string
}

// FirstLast splits the display name into first/last profile fields.
func (e ExternalIdentity) FirstLast() (string, string) {
	name := strings.TrimSpace(e.DisplayName)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// Profile holds the caller-supplied mutable profile fields used by the
// sync and registration flows. Role is deliberately absent.
type Profile struct {
	Email     string
	FirstName string
	LastName  string
	Phone     *string
	Avatar    *string
}
