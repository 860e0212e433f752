package userapp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"xclone/internal/core/errs"
	userEntity "xclone/internal/core/user"
	followerPort "xclone/internal/ports/follower"
	sessionPort "xclone/internal/ports/session"
	socialPort "xclone/internal/ports/social"
	userPort "xclone/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer       = "xclone"
	minPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt input limit
	maxUsernameLength = 150
	maxBioLength      = 500
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	usernameUnsafe  = regexp.MustCompile(`[^\w.]+`)
	validate        = validator.New()
)

// UserService manages accounts, credentials and bearer sessions.
type UserService struct {
	UserRepository     userPort.UserRepository
	FollowerRepository followerPort.FollowerRepository
	Sessions           sessionPort.SessionStore
	Verifiers          map[string]socialPort.Verifier

	// HashCost is the bcrypt cost for new passwords.
	HashCost int

	jwtKey   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewUserService(
	repo userPort.UserRepository,
	followerRepo followerPort.FollowerRepository,
	sessions sessionPort.SessionStore,
	verifiers map[string]socialPort.Verifier,
	jwtKey []byte,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		UserRepository:     repo,
		FollowerRepository: followerRepo,
		Sessions:           sessions,
		Verifiers:          verifiers,
		HashCost:           bcrypt.DefaultCost,
		jwtKey:             jwtKey,
		tokenTTL:           tokenTTL,
		logger:             logger,
	}
}

// Register creates an account and signs it in.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*userPort.AuthResponse, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := checkUsername(username); err != nil {
		return nil, err
	}
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, errs.FieldError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return nil, errs.FieldError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	existing, err := s.UserRepository.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, errs.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("username or email already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return nil, err
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: username,
		Email:    email,
		Password: string(hashed),
	})
	if errors.Is(err, errs.ErrDuplicate) {
		return nil, errs.Conflict("username or email already taken")
	}
	if err != nil {
		s.logger.Error("Failed to create user", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("User registered", zap.String("userID", u.ID.String()))
	return s.issue(ctx, u)
}

// Login checks a username and password. Unknown users and wrong passwords fail the same way.
func (s *UserService) Login(ctx context.Context, username, password string) (*userPort.AuthResponse, error) {
	u, err := s.UserRepository.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, errs.ErrRecordNotFound) {
		return nil, errs.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Debug("Invalid password", zap.String("userID", u.ID.String()))
		return nil, errs.ErrInvalidCredentials
	}

	return s.issue(ctx, u)
}

// SocialLogin signs in with a provider token, linking or creating the account as needed.
func (s *UserService) SocialLogin(ctx context.Context, provider, token string) (*userPort.AuthResponse, error) {
	v, ok := s.Verifiers[provider]
	if !ok {
		return nil, errs.Validation("unsupported provider " + provider)
	}
	if strings.TrimSpace(token) == "" {
		return nil, errs.FieldError("token", "this field is required")
	}

	id, err := v.Verify(ctx, token)
	if errors.Is(err, socialPort.ErrInvalidToken) {
		return nil, errs.Unauthenticated("invalid " + provider + " token")
	}
	if err != nil {
		s.logger.Error("Social token verification failed", zap.String("provider", provider), zap.Error(err))
		return nil, err
	}

	u, err := s.socialUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u)
}

func (s *UserService) socialUser(ctx context.Context, id *socialPort.Identity) (*userEntity.User, error) {
	u, err := s.UserRepository.FindBySocialID(ctx, id.Provider, id.SubjectID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, errs.ErrRecordNotFound) {
		return nil, err
	}

	if id.Email != "" {
		u, err = s.UserRepository.FindByEmail(ctx, id.Email)
		if err == nil {
			s.logger.Info("Linking social account", zap.String("userID", u.ID.String()), zap.String("provider", id.Provider))
			return s.UserRepository.Update(ctx, u.ID, map[string]interface{}{
				"social_provider": id.Provider,
				"social_id":       id.SubjectID,
			})
		}
		if !errors.Is(err, errs.ErrRecordNotFound) {
			return nil, err
		}
	}

	password, err := randomSecret()
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return nil, err
	}

	email := id.Email
	if email == "" {
		// email is unique and required; accounts without one get a provider-scoped placeholder
		email = id.Provider + "_" + id.SubjectID + "@users.noreply.xclone"
	}

	username, err := s.uniqueUsername(ctx, usernameBase(id))
	if err != nil {
		return nil, err
	}

	u, err = s.UserRepository.Create(ctx, &userEntity.User{
		ID:             uuid.Must(uuid.NewV4()),
		Username:       username,
		Email:          email,
		Password:       string(hashed),
		SocialProvider: id.Provider,
		SocialID:       id.SubjectID,
	})
	if errors.Is(err, errs.ErrDuplicate) {
		return nil, errs.Conflict("account already exists")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Social account created", zap.String("userID", u.ID.String()), zap.String("provider", id.Provider))
	return u, nil
}

// usernameBase picks the suggested username, then the email local part, then provider_subject.
func usernameBase(id *socialPort.Identity) string {
	candidates := []string{id.Username}
	if at := strings.IndexByte(id.Email, '@'); at > 0 {
		candidates = append(candidates, id.Email[:at])
	}
	candidates = append(candidates, id.Provider+"_"+id.SubjectID)

	for _, c := range candidates {
		c = strings.ToLower(usernameUnsafe.ReplaceAllString(strings.TrimSpace(c), ""))
		if c != "" {
			if len(c) > maxUsernameLength-10 {
				c = c[:maxUsernameLength-10]
			}
			return c
		}
	}
	return "user"
}

func (s *UserService) uniqueUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		_, err := s.UserRepository.FindByUsername(ctx, candidate)
		if errors.Is(err, errs.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

// Logout revokes the token the caller authenticated with.
func (s *UserService) Logout(ctx context.Context, p *userPort.Principal) error {
	return s.Sessions.Revoke(ctx, p.TokenID)
}

// LogoutAll revokes every token of the caller.
func (s *UserService) LogoutAll(ctx context.Context, p *userPort.Principal) error {
	return s.Sessions.RevokeAll(ctx, p.UserID.String())
}

// Authenticate resolves a bearer token to its principal. The token must verify,
// be unexpired, have a live session and belong to an existing user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*userPort.Principal, error) {
	claims := &jwt.StandardClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || claims.Id == "" {
		return nil, errs.Unauthenticated("invalid or expired token")
	}

	owner, err := s.Sessions.Lookup(ctx, claims.Id)
	if errors.Is(err, sessionPort.ErrSessionNotFound) || (err == nil && owner != claims.Subject) {
		return nil, errs.Unauthenticated("session expired or revoked")
	}
	if err != nil {
		return nil, err
	}

	userID, err := uuid.FromString(claims.Subject)
	if err != nil {
		return nil, errs.Unauthenticated("invalid or expired token")
	}
	if _, err := s.UserRepository.FindByID(ctx, userID); err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return nil, errs.Unauthenticated("user not found")
		}
		return nil, err
	}

	return &userPort.Principal{UserID: userID, TokenID: claims.Id}, nil
}

// GetProfile returns the caller's own account, email included.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	dto, err := s.toDTO(ctx, u)
	if err != nil {
		return nil, err
	}
	dto.Email = u.Email
	return dto, nil
}

// UpdateProfile applies the supplied fields only.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, in userPort.ProfileUpdate) (*userPort.UserDTO, error) {
	fields := map[string]interface{}{}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := checkUsername(username); err != nil {
			return nil, err
		}
		if err := s.ensureFree(ctx, userID, s.UserRepository.FindByUsername, username, "username"); err != nil {
			return nil, err
		}
		fields["username"] = username
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := checkEmail(email); err != nil {
			return nil, err
		}
		if err := s.ensureFree(ctx, userID, s.UserRepository.FindByEmail, email, "email"); err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > maxBioLength {
			return nil, errs.FieldError("bio", fmt.Sprintf("must be at most %d characters", maxBioLength))
		}
		fields["bio"] = *in.Bio
	}
	if in.ProfilePicture != nil {
		fields["profile_picture"] = *in.ProfilePicture
	}
	if in.BannerImage != nil {
		fields["banner_image"] = *in.BannerImage
	}

	if _, err := s.UserRepository.Update(ctx, userID, fields); err != nil {
		if errors.Is(err, errs.ErrDuplicate) {
			return nil, errs.Conflict("username or email already taken")
		}
		return nil, notFound(err, "user not found")
	}
	return s.GetProfile(ctx, userID)
}

func (s *UserService) ensureFree(ctx context.Context, userID uuid.UUID, find func(context.Context, string) (*userEntity.User, error), value, field string) error {
	other, err := find(ctx, value)
	if errors.Is(err, errs.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != userID {
		return &errs.Error{Kind: errs.KindConflict, Message: field + " already taken", Fields: map[string]string{field: "already taken"}}
	}
	return nil
}

// GetUserByUsername returns a public profile with the viewer's follow state.
func (s *UserService) GetUserByUsername(ctx context.Context, viewerID uuid.UUID, username string) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	dto, err := s.toDTO(ctx, u)
	if err != nil {
		return nil, err
	}

	following, err := s.FollowerRepository.IsFollowing(ctx, viewerID, u.ID)
	if err != nil {
		return nil, err
	}
	dto.IsFollowing = &following
	if u.ID == viewerID {
		dto.Email = u.Email
	}
	return dto, nil
}

func (s *UserService) toDTO(ctx context.Context, u *userEntity.User) (*userPort.UserDTO, error) {
	stats, err := s.UserRepository.Stats(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &userPort.UserDTO{
		ID:             u.ID.String(),
		Username:       u.Username,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		BannerImage:    u.BannerImage,
		DateJoined:     u.CreatedAt,
		FollowersCount: stats.Followers,
		FollowingCount: stats.Following,
		PostsCount:     stats.Posts,
	}, nil
}

// issue signs a session token for u and registers it in the session store.
func (s *UserService) issue(ctx context.Context, u *userEntity.User) (*userPort.AuthResponse, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	tokenID := uuid.Must(uuid.NewV4()).String()

	claims := &jwt.StandardClaims{
		Id:        tokenID,
		Subject:   u.ID.String(),
		Issuer:    tokenIssuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		s.logger.Error("Error generating JWT", zap.Error(err))
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	if err := s.Sessions.Save(ctx, tokenID, u.ID.String(), s.tokenTTL); err != nil {
		s.logger.Error("Error saving session", zap.String("userID", u.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("could not save session: %w", err)
	}

	dto, err := s.toDTO(ctx, u)
	if err != nil {
		return nil, err
	}
	dto.Email = u.Email

	return &userPort.AuthResponse{User: dto, Token: signed, ExpiresAt: expiresAt.Unix()}, nil
}

func checkUsername(username string) error {
	switch {
	case username == "":
		return errs.FieldError("username", "this field is required")
	case utf8.RuneCountInString(username) > maxUsernameLength:
		return errs.FieldError("username", fmt.Sprintf("must be at most %d characters", maxUsernameLength))
	case !usernamePattern.MatchString(username):
		return errs.FieldError("username", "may contain only letters, digits and @/./+/-/_")
	}
	return nil
}

func checkEmail(email string) error {
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return errs.FieldError("email", "enter a valid email address")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// notFound maps a missing record to a client-facing not found error.
func notFound(err error, msg string) error {
	if errors.Is(err, errs.ErrRecordNotFound) {
		return errs.NotFound(msg)
	}
	return err
}
