package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"krushak/internal/cache"
	apperrors "krushak/internal/errors"
	"krushak/internal/mailer"
	"krushak/internal/models"
	"krushak/internal/queue"
	"krushak/internal/repository"
	"krushak/pkg/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// resetTokenTTL bounds how long a password reset link stays valid.
const resetTokenTTL = 15 * time.Minute

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthService implements AuthServicer.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	resetStore  cache.ResetTokenStore
	jwtManager  auth.TokenManager
	tokenGen    auth.SessionTokenGenerator
	queue       queue.Queue

	accessExpiry  time.Duration
	refreshExpiry time.Duration
	baseURL       string

	oauthConfig *oauth2.Config
	userinfoURL string
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	resetStore cache.ResetTokenStore,
	jwtManager auth.TokenManager,
	tokenGen auth.SessionTokenGenerator,
	q queue.Queue,
	accessExpiry, refreshExpiry time.Duration,
	baseURL string,
	googleClientID, googleClientSecret, googleRedirectURL string,
) *AuthService {
	var oauthConfig *oauth2.Config
	if googleClientID != "" {
		oauthConfig = &oauth2.Config{
			ClientID:     googleClientID,
			ClientSecret: googleClientSecret,
			RedirectURL:  googleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &AuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		resetStore:    resetStore,
		jwtManager:    jwtManager,
		tokenGen:      tokenGen,
		queue:         q,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		baseURL:       baseURL,
		oauthConfig:   oauthConfig,
		userinfoURL:   googleUserinfoURL,
	}
}

// Register creates a new user account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		DisplayName: req.DisplayName,
		Username:    strings.ToLower(req.Username),
		Email:       strings.ToLower(req.Email),
		Password:    hashed,
		Phone:       req.Phone,
		Role:        models.RoleFarmer,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.enqueue(user.Email, mailer.TemplateWelcome, map[string]string{
		"Name": user.DisplayName,
	})

	return s.issueTokens(ctx, user)
}

// Login authenticates a user by username and password.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.ToLower(req.Username))
	if err != nil {
		// Same error whether the user is missing or the password is wrong.
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh token and issues a fresh access token.
//
// The one-token-lookback rule: a token matching the session's current hash
// rotates normally; a token matching the previous hash means someone already
// rotated with the current one, so the session is treated as stolen and
// revoked outright.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	sessionID, err := s.tokenGen.ExtractSessionID(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	session, err := s.sessionRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessionRepo.Delete(ctx, sessionID)
		return nil, apperrors.ErrSessionNotFound
	}

	tokenHash := s.tokenGen.Hash(refreshToken)

	if !s.tokenGen.CompareHashes(tokenHash, session.TokenHash) {
		if session.PreviousTokenHash != "" && s.tokenGen.CompareHashes(tokenHash, session.PreviousTokenHash) {
			log.Printf("refresh token reuse detected for session %s, revoking", sessionID)
			_ = s.sessionRepo.Delete(ctx, sessionID)
			return nil, apperrors.ErrSessionReuse
		}
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	newToken, err := s.tokenGen.GenerateWithSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.refreshExpiry)
	if err := s.sessionRepo.Rotate(ctx, sessionID, s.tokenGen.Hash(newToken), expiresAt); err != nil {
		return nil, err
	}

	accessToken, err := s.jwtManager.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newToken,
		ExpiresIn:    int(s.accessExpiry.Seconds()),
		User:         *user,
	}, nil
}

// Logout revokes the session behind a refresh token. Unknown or malformed
// tokens are ignored so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	sessionID, err := s.tokenGen.ExtractSessionID(refreshToken)
	if err != nil {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil && err != apperrors.ErrSessionNotFound {
		return err
	}
	return nil
}

// LogoutAll revokes every session of the user, across all devices.
func (s *AuthService) LogoutAll(ctx context.Context, userID primitive.ObjectID) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}

// ForgotPassword starts the reset flow. It reports success whether or not the
// email belongs to an account, so the endpoint cannot be used to probe emails.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if err == apperrors.ErrUserNotFound {
			return nil
		}
		return err
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.resetStore.Create(ctx, auth.HashResetToken(token), user.ID.Hex(), resetTokenTTL); err != nil {
		return err
	}

	s.enqueue(user.Email, mailer.TemplatePasswordReset, map[string]string{
		"Name":     user.DisplayName,
		"ResetURL": fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token),
	})
	return nil
}

// ResetPassword completes the reset flow: the token is single-use and all
// existing sessions are revoked once the password changes.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userIDHex, err := s.resetStore.Consume(ctx, auth.HashResetToken(token))
	if err != nil {
		return err
	}
	if userIDHex == "" {
		return apperrors.ErrResetTokenInvalid
	}

	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return apperrors.ErrResetTokenInvalid
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	return s.sessionRepo.DeleteByUserID(ctx, userID)
}

// OAuthLoginURL returns the Google consent page URL for the given state.
func (s *AuthService) OAuthLoginURL(state string) string {
	if s.oauthConfig == nil {
		return ""
	}
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// googleProfile is the subset of the userinfo response we consume.
type googleProfile struct {
	Sub     string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// OAuthCallback exchanges the authorization code, provisions an account on
// first login and opens a session.
func (s *AuthService) OAuthCallback(ctx context.Context, code string) (*models.AuthResponse, error) {
	if s.oauthConfig == nil {
		return nil, fmt.Errorf("google oauth is not configured")
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	profile, err := s.fetchGoogleProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("google profile has no email")
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(profile.Email))
	if err != nil {
		if err != apperrors.ErrUserNotFound {
			return nil, err
		}
		user, err = s.provisionOAuthUser(ctx, profile)
		if err != nil {
			return nil, err
		}
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) fetchGoogleProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(s.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode google profile: %w", err)
	}
	return &profile, nil
}

// provisionOAuthUser creates an account from a Google profile. The password
// field holds a random hash nobody knows, so password login stays closed
// until the user runs the reset flow.
func (s *AuthService) provisionOAuthUser(ctx context.Context, profile *googleProfile) (*models.User, error) {
	random, err := auth.GenerateResetToken()
	if err != nil {
		return nil, err
	}
	hashed, err := auth.HashPassword(random)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		DisplayName:   profile.Name,
		Username:      usernameFromEmail(profile.Email),
		Email:         strings.ToLower(profile.Email),
		Password:      hashed,
		Role:          models.RoleFarmer,
		Avatar:        profile.Picture,
		OAuthProvider: "google",
		OAuthSubject:  profile.Sub,
	}

	err = s.userRepo.Create(ctx, user)
	if err == apperrors.ErrUsernameTaken {
		// Rare collision on the derived username; disambiguate and retry once.
		user.Username = fmt.Sprintf("%s%d", user.Username, time.Now().Unix()%100000)
		err = s.userRepo.Create(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	s.enqueue(user.Email, mailer.TemplateWelcome, map[string]string{
		"Name": user.DisplayName,
	})
	return user, nil
}

func usernameFromEmail(email string) string {
	local := strings.SplitN(strings.ToLower(email), "@", 2)[0]
	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if len(name) < 3 {
		name = "user" + name
	}
	return name
}

// issueTokens opens a new session for the user and returns both tokens.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, sessionID, err := s.tokenGen.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := &models.Session{
		SessionID: sessionID,
		UserID:    user.ID,
		TokenHash: s.tokenGen.Hash(refreshToken),
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(s.refreshExpiry),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessExpiry.Seconds()),
		User:         *user,
	}, nil
}

// enqueue hands a notification to the background queue. Delivery is
// best-effort; a full queue only logs.
func (s *AuthService) enqueue(to string, tmpl mailer.Template, data map[string]string) {
	if err := s.queue.Enqueue(queue.NotificationJob{To: to, Template: tmpl, Data: data}); err != nil {
		log.Printf("failed to enqueue %s notification: %v", tmpl, err)
	}
}
