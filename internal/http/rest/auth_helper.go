package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/hazardhub/hazardhub_api/internal/model"
	"github.com/hazardhub/hazardhub_api/util"
	"github.com/hazardhub/hazardhub_api/util/values"
)

const (
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleTokenInfoURL = "https://www.googleapis.com/oauth2/v3/tokeninfo"
)

type TokenClaims struct {
	UserID string
	Type   string
	Exp    int64
}

type googleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type googleTokenInfo struct {
	Audience string `json:"aud"`
}

func (api *API) RegisterUserHelper(ctx context.Context, req model.RegisterRequest) (model.LoginResponse, string, string, error) {
	_, err := api.GetUserByEmailRepo(ctx, req.Email)
	if err == nil {
		return model.LoginResponse{}, values.Conflict, "Email already registered", errors.New("email already registered")
	}
	if err != ErrUserNotFound {
		return model.LoginResponse{}, values.Error, "Failed to register user", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.LoginResponse{}, values.Error, "Failed to register user", errors.Wrap(err, "hashing password")
	}
	passwordHash := string(hash)

	user := model.User{
		ID:           util.GenerateUUID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &passwordHash,
		AuthProvider: "email",
		Role:         model.RoleUser,
	}

	if err := api.CreateUserRepo(ctx, user); err != nil {
		return model.LoginResponse{}, values.Error, "Failed to register user", err
	}

	return api.loginResponse(user, values.Created, "User registered successfully")
}

func (api *API) LoginUserHelper(ctx context.Context, req model.LoginRequest) (model.LoginResponse, string, string, error) {
	user, err := api.GetUserByEmailRepo(ctx, req.Email)
	if err == ErrUserNotFound {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid email or password", err
	}
	if err != nil {
		return model.LoginResponse{}, values.Error, "Failed to log in", err
	}

	if user.PasswordHash == nil {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid email or password", errors.New("password login not enabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid email or password", err
	}

	return api.loginResponse(user, values.Success, "Login successful")
}

// GoogleAuthHelper signs a caller in with a Google OAuth access token. When
// createIfMissing is set an account is provisioned on first sight.
func (api *API) GoogleAuthHelper(ctx context.Context, req model.GoogleAuthRequest, createIfMissing bool) (model.LoginResponse, string, string, error) {
	info, err := api.fetchGoogleUserInfo(ctx, req.AccessToken)
	if err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Google authentication failed", err
	}
	if err := util.ValidEmail(info.Email); err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Google authentication failed", errors.New("google account has no usable email")
	}

	user, err := api.GetUserByEmailRepo(ctx, info.Email)
	if err == ErrUserNotFound {
		if !createIfMissing {
			return model.LoginResponse{}, values.NotFound, "No account for this Google user", err
		}

		user = model.User{
			ID:           util.GenerateUUID(),
			Name:         info.Name,
			Email:        info.Email,
			AuthProvider: "google",
			Role:         model.RoleUser,
		}
		if err := api.CreateUserRepo(ctx, user); err != nil {
			return model.LoginResponse{}, values.Error, "Failed to register user", err
		}
		return api.loginResponse(user, values.Created, "User registered successfully")
	}
	if err != nil {
		return model.LoginResponse{}, values.Error, "Failed to log in", err
	}

	return api.loginResponse(user, values.Success, "Login successful")
}

func (api *API) MeHelper(ctx context.Context) (model.User, string, string, error) {
	userID, err := util.GetUserIDFromContext(ctx)
	if err != nil {
		return model.User{}, values.NotAuthorised, "Not authorized", err
	}

	user, err := api.GetUserByID(ctx, userID.String())
	if err == ErrUserNotFound {
		return model.User{}, values.NotFound, "User not found", err
	}
	if err != nil {
		return model.User{}, values.Error, "Failed to fetch user", err
	}

	return user, values.Success, "User fetched successfully", nil
}

func (api *API) loginResponse(user model.User, status, message string) (model.LoginResponse, string, string, error) {
	token, expiresAt, err := api.createToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, "Failed to issue token", err
	}

	return model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, status, message, nil
}

func (api *API) createToken(userID string) (string, time.Time, error) {
	lifetime, err := time.ParseDuration(api.Config.JwtExpires)
	if err != nil || lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	now := api.now()
	expiresAt := now.Add(lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"typ": "access",
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(api.Config.JwtSecret))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "signing token")
	}
	return signed, expiresAt, nil
}

func (api *API) fetchGoogleUserInfo(ctx context.Context, accessToken string) (googleUserInfo, error) {
	if accessToken == "" {
		return googleUserInfo{}, errors.New("missing access token")
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client := oauth2.NewClient(ctx, source)

	if err := api.verifyGoogleAudience(client, accessToken); err != nil {
		return googleUserInfo{}, err
	}

	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return googleUserInfo{}, errors.Wrap(err, "fetching google user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return googleUserInfo{}, errors.Errorf("google user info returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, errors.Wrap(err, "decoding google user info")
	}
	return info, nil
}

// verifyGoogleAudience rejects access tokens issued to a different OAuth
// client. Skipped when no client ID is configured.
func (api *API) verifyGoogleAudience(client *http.Client, accessToken string) error {
	if api.Config.GoogleClientID == "" {
		return nil
	}

	resp, err := client.Get(googleTokenInfoURL + "?access_token=" + url.QueryEscape(accessToken))
	if err != nil {
		return errors.Wrap(err, "fetching google token info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return errors.Errorf("google token info returned status %d", resp.StatusCode)
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return errors.Wrap(err, "decoding google token info")
	}
	if info.Audience != api.Config.GoogleClientID {
		return errors.New("access token audience mismatch")
	}
	return nil
}
