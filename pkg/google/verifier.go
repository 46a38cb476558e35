package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/budgetquest/budgetquest/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var ErrInvalidToken = errors.New("invalid google access token")

// ProfileFetcher resolves an access token issued by Google into the identity it belongs to.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, accessToken string) (user.Identity, error)
}

type TokenVerifier struct {
	clientId string
	options  []option.ClientOption
}

// NewTokenVerifier creates a verifier calling Google's OAuth2 API. With a non-empty clientId,
// tokens issued to other OAuth clients are rejected. Extra options (e.g. option.WithEndpoint)
// are passed to the API client.
func NewTokenVerifier(clientId string, opts ...option.ClientOption) *TokenVerifier {
	return &TokenVerifier{clientId: clientId, options: opts}
}

func (v *TokenVerifier) FetchProfile(ctx context.Context, accessToken string) (user.Identity, error) {
	if accessToken == "" {
		return user.Identity{}, ErrInvalidToken
	}
	token := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, v.options...)
	service, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		err := fmt.Errorf("unable to create Google OAuth2 client: %w", err)
		log.Error(err)
		return user.Identity{}, err
	}

	info, err := service.Tokeninfo().AccessToken(accessToken).Context(ctx).Do()
	if err != nil {
		return user.Identity{}, classify(err, "token info")
	}
	if v.clientId != "" && info.Audience != v.clientId && info.IssuedTo != v.clientId {
		log.Warnf("rejecting access token issued to %q", info.IssuedTo)
		return user.Identity{}, fmt.Errorf("%w: issued to another client", ErrInvalidToken)
	}

	profile, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return user.Identity{}, classify(err, "user info")
	}
	if profile.Id == "" {
		return user.Identity{}, fmt.Errorf("%w: profile has no id", ErrInvalidToken)
	}

	return user.Identity{
		GoogleId:   profile.Id,
		GivenName:  profile.GivenName,
		FamilyName: profile.FamilyName,
		PhotoUrl:   profile.Picture,
	}, nil
}

func classify(err error, call string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusBadRequest || apiErr.Code == http.StatusUnauthorized) {
		log.Debugf("google rejected access token on %s: %v", call, err)
		return fmt.Errorf("%w: %s", ErrInvalidToken, apiErr.Message)
	}
	err = fmt.Errorf("unable to retrieve %s from Google: %w", call, err)
	log.Error(err)
	return err
}
