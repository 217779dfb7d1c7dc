package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"techweave_backend/internal/domain"
	"techweave_backend/internal/security"
)

// AuthService handles signup, login, and password reset.
type AuthService struct {
	users  domain.UserRepository
	groups domain.GroupRepository
	tokens *security.TokenService
	hash   *security.PasswordHasher
}

func NewAuthService(
	users domain.UserRepository,
	groups domain.GroupRepository,
	tokens *security.TokenService,
	hash *security.PasswordHasher,
) *AuthService {
	return &AuthService{
		users:  users,
		groups: groups,
		tokens: tokens,
		hash:   hash,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	Role     string

	// Mentor-only fields.
	Expertise  string
	Experience string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken string
	User        *domain.User
}

// Signup registers a new user, marks them verified, and auto-joins them to
// General Chat. A failed auto-join is logged but does not fail the signup.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email, and password are required", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleStudent
	}
	switch role {
	case domain.RoleStudent, domain.RoleMentor:
	default:
		return nil, fmt.Errorf("%w: role must be student or mentor", domain.ErrInvalidInput)
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already exists", domain.ErrConflict)
	}

	hashed, err := s.hash.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: hashed,
		Role:           role,
		Verified:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if role == domain.RoleMentor && in.Expertise != "" && in.Experience != "" {
		profile := &domain.MentorProfile{
			UserID:     user.ID,
			Expertise:  in.Expertise,
			Experience: in.Experience,
		}
		if err := s.users.CreateMentorProfile(ctx, profile); err != nil {
			log.Printf("auth: mentor profile for user %d: %v", user.ID, err)
		}
	}

	if err := s.groups.AddMember(ctx, domain.GeneralChatGroupID, user.ID); err != nil {
		log.Printf("auth: auto-join general chat for user %d: %v", user.ID, err)
	} else {
		log.Printf("auth: user %d (%s) auto-joined General Chat", user.ID, role)
	}

	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hash.Verify(in.Password, user.HashedPassword); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := s.tokens.CreateForUser(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	log.Printf("auth: user %d (%s) logged in", user.ID, user.Role)
	return &LoginResult{AccessToken: token, User: user}, nil
}

// RequestPasswordReset issues a short-lived reset token for the email. The
// caller is expected to deliver it out of band.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	token, err := s.tokens.CreateResetToken(email)
	if err != nil {
		return "", fmt.Errorf("create reset token: %w", err)
	}
	return token, nil
}

// ResetPassword validates a reset token and replaces the user's password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrInvalidInput)
	}
	email, err := s.tokens.ParseResetToken(token)
	if err != nil {
		return fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthorized)
	}
	hashed, err := s.hash.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, email, hashed); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	log.Printf("auth: password reset for %s", email)
	return nil
}
