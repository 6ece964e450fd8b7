package handler

import (
	"time"

	"hearth/internal/domain/entity"
	"hearth/internal/usecase"
)

// userView is the public shape of a user account. Sensitive fields like
// the recovery token and credential never appear here.
type userView struct {
	GUID        string `json:"guid"`
	Username    string `json:"userName"`
	DisplayName string `json:"fullName"`
	Email       string `json:"email"`
	Language    string `json:"language,omitempty"`
	Status      string `json:"status"`
}

func newUserView(user *entity.User) *userView {
	if user == nil {
		return nil
	}

	return &userView{
		GUID:        user.GUID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Language:    user.Language,
		Status:      string(user.Status),
	}
}

// loginView is the payload returned after a successful login.
type loginView struct {
	SessionToken string    `json:"sessionToken"`
	AccessToken  string    `json:"accessToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         *userView `json:"user"`
}

func newLoginView(output *usecase.LoginOutput) *loginView {
	if output == nil {
		return nil
	}

	return &loginView{
		SessionToken: output.SessionToken,
		AccessToken:  output.AccessToken,
		ExpiresAt:    output.ExpiresAt,
		User:         newUserView(output.User),
	}
}

// inviteView is the public shape of a registration invite. The raw
// token only appears for admin-issued invites, where the admin relays
// the link out of band.
type inviteView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Source    string `json:"source"`
	Language  string `json:"language,omitempty"`
	Token     string `json:"token,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func newInviteView(invite *entity.Invite, includeToken bool) *inviteView {
	if invite == nil {
		return nil
	}

	view := &inviteView{
		ID:        invite.ID.String(),
		Email:     invite.Email,
		Source:    string(invite.Source),
		Language:  invite.Language,
		CreatedAt: invite.CreatedAt.Format(time.RFC3339),
	}
	if includeToken {
		view.Token = invite.Token
	}

	return view
}
