package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Gitsandu/taskmanagementBackend/config"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/apperror"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/entity"
	repo "github.com/Gitsandu/taskmanagementBackend/internal/domain/repository"
	"github.com/Gitsandu/taskmanagementBackend/pkg/helpers"
	"github.com/Gitsandu/taskmanagementBackend/pkg/mailer"
	mailtpl "github.com/Gitsandu/taskmanagementBackend/pkg/mailer/templates"
)

// JobPublisher enqueues background jobs. *helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Pub    JobPublisher
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, pub JobPublisher, cfg *config.Config, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Pub: pub, Cfg: cfg, Logger: logger}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"-"`
}

// NormalizeEmail trims and lower-cases an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	u := &entity.User{
		Username: strings.TrimSpace(in.Username),
		Email:    NormalizeEmail(in.Email),
	}
	if _, err := s.Repo.GetByEmail(ctx, u.Email); err == nil {
		return nil, apperror.Conflict("user already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.Internal("lookup user", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, helpers.ErrPasswordTooLong) {
			return nil, apperror.Validation("validation failed", map[string]string{"password": "must be at most 72 bytes long"})
		}
		return nil, apperror.Internal("hash password", err)
	}
	u.Password = hash

	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, apperror.Conflict("user already exists")
		}
		return nil, apperror.Internal("create user", err)
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.enqueueWelcome(ctx, u)
	return res, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Unauthenticated("invalid email or password")
		}
		return nil, apperror.Internal("lookup user", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperror.Unauthenticated("invalid email or password")
	}
	return s.issue(u)
}

// ResolveToken verifies a bearer token and loads the user it names.
// Any failure, including a user deleted after issuance, is Unauthenticated.
func (s *UserService) ResolveToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.ParseToken(token)
	if err != nil {
		if errors.Is(err, helpers.ErrTokenExpired) {
			return nil, apperror.Unauthenticated("token expired")
		}
		return nil, apperror.Unauthenticated("invalid token")
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Unauthenticated("user not found")
		}
		return nil, apperror.Internal("lookup user", err)
	}
	return u, nil
}

func (s *UserService) issue(u *entity.User) (*AuthResult, error) {
	tok, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, apperror.Internal("generate token", err)
	}
	return &AuthResult{ID: u.ID, Username: u.Username, Email: u.Email, Token: tok, ExpiresAt: exp}, nil
}

// enqueueWelcome is best effort: signup already succeeded, so a broker failure is only logged.
func (s *UserService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(s.Cfg, u.Username, u.Email, mailtpl.WithTime(u.CreatedAt)),
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "enqueue welcome email failed", err, logrus.Fields{"user_id": u.ID})
	}
}
