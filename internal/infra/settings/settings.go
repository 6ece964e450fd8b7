// Package settings exposes deployment policy toggles to the auth flows.
package settings

import (
	"hearth/config"
	"hearth/internal/domain/service"
)

// configProvider reads policy from the loaded configuration. The flows
// call these per request, so a future store-backed provider can swap in
// without touching them.
type configProvider struct {
	auth *config.AuthConfig
}

// New returns a SettingsProvider backed by the static configuration.
func New(cfg *config.Config) service.SettingsProvider {
	auth := cfg.Auth
	if auth == nil {
		auth = &config.AuthConfig{}
	}

	return &configProvider{auth: auth}
}

func (p *configProvider) AnonymousRegistrationEnabled() bool {
	return p.auth.AnonymousRegistration
}

func (p *configProvider) NeedApproval() bool {
	return p.auth.NeedApproval
}

func (p *configProvider) DefaultUserGroup() string {
	return p.auth.DefaultUserGroup
}
