package mail

import (
	"context"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// gmailAuthedUser addresses the mailbox the access token belongs to.
const gmailAuthedUser = "me"

// gmailAPI is the production messageAPI backed by the real Gmail service.
type gmailAPI struct {
	svc *gmailapi.Service
}

// newGmailAPI builds a Gmail service bound to one user's access token.
func newGmailAPI(ctx context.Context, accessToken string) (messageAPI, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	svc, err := gmailapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, err
	}
	return &gmailAPI{svc: svc}, nil
}

func (a *gmailAPI) List(ctx context.Context, query string, maxResults int64) ([]*gmailapi.Message, error) {
	res, err := a.svc.Users.Messages.List(gmailAuthedUser).
		Q(query).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return res.Messages, nil
}

func (a *gmailAPI) Metadata(ctx context.Context, id string) (*gmailapi.Message, error) {
	return a.svc.Users.Messages.Get(gmailAuthedUser, id).
		Format("metadata").
		MetadataHeaders("Subject", "From").
		Context(ctx).
		Do()
}

func (a *gmailAPI) Full(ctx context.Context, id string) (*gmailapi.Message, error) {
	return a.svc.Users.Messages.Get(gmailAuthedUser, id).
		Format("full").
		Context(ctx).
		Do()
}
