package service

// SettingsProvider exposes the deployment policy toggles the auth flows
// consult. Values are read at the moment a flow needs them, so a policy
// change between invite issuance and consumption takes effect at
// consumption time.
type SettingsProvider interface {
	// AnonymousRegistrationEnabled gates self-service invites.
	AnonymousRegistrationEnabled() bool

	// NeedApproval reports whether new accounts start pending
	// administrator approval instead of being auto-logged-in.
	NeedApproval() bool

	// DefaultUserGroup is the group assigned at registration when the
	// submission does not pick one.
	DefaultUserGroup() string
}
