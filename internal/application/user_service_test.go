package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gitsandu/taskmanagementBackend/config"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/apperror"
	"github.com/Gitsandu/taskmanagementBackend/pkg/helpers"
	"github.com/Gitsandu/taskmanagementBackend/pkg/mailer"
	mailtpl "github.com/Gitsandu/taskmanagementBackend/pkg/mailer/templates"
)

type recordingPublisher struct {
	jobs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.jobs = append(p.jobs, body)
	return p.err
}

func newUserService(t *testing.T, pub JobPublisher, mail bool) *UserService {
	t.Helper()
	clock := newFakeClock(time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC))
	cfg := &config.Config{AppName: "tasks", AppURL: "http://app.test", MailSendEnabled: mail}
	return NewUserService(newStore(t, clock).Users(), helpers.NewJWTManager("secret", time.Hour), pub, cfg, quietLogger())
}

func TestUserService_SignupAndLogin(t *testing.T) {
	svc := newUserService(t, nil, false)
	ctx := context.Background()

	res, err := svc.Signup(ctx, SignupInput{Username: "  alice ", Email: " Alice@Example.COM ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "alice@example.com", res.Email)
	assert.NotEmpty(t, res.Token)

	login, err := svc.Login(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, res.ID, login.ID)

	u, err := svc.ResolveToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.ID, u.ID)
	assert.NotEqual(t, "secret1", u.Password)
}

func TestUserService_SignupDuplicateEmail(t *testing.T) {
	svc := newUserService(t, nil, false)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Username: "bob2", Email: "BOB@example.com", Password: "secret2"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestUserService_LoginFailures(t *testing.T) {
	svc := newUserService(t, nil, false)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Username: "carol", Email: "carol@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "carol@example.com", "wrong-pass")
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
}

func TestUserService_ResolveToken(t *testing.T) {
	svc := newUserService(t, nil, false)
	ctx := context.Background()

	_, err := svc.ResolveToken(ctx, "garbage")
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	// valid signature, but the user does not exist
	tok, _, err := svc.JWT.GenerateToken("ghost")
	require.NoError(t, err)
	_, err = svc.ResolveToken(ctx, tok)
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	other := helpers.NewJWTManager("another-secret", time.Hour)
	tok, _, err = other.GenerateToken("ghost")
	require.NoError(t, err)
	_, err = svc.ResolveToken(ctx, tok)
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
}

func TestUserService_WelcomeEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("published when enabled", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := newUserService(t, pub, true)

		_, err := svc.Signup(ctx, SignupInput{Username: "dave", Email: "dave@example.com", Password: "secret1"})
		require.NoError(t, err)
		require.Len(t, pub.jobs, 1)

		job, ok := pub.jobs[0].(mailer.EmailJob)
		require.True(t, ok)
		assert.Equal(t, "dave@example.com", job.To)
		assert.Equal(t, mailtpl.Welcome, job.Template)
		assert.Equal(t, "dave", job.Data["Name"])
	})

	t.Run("skipped when disabled", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := newUserService(t, pub, false)

		_, err := svc.Signup(ctx, SignupInput{Username: "erin", Email: "erin@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Empty(t, pub.jobs)
	})

	t.Run("publish failure does not fail signup", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("broker down")}
		svc := newUserService(t, pub, true)

		res, err := svc.Signup(ctx, SignupInput{Username: "frank", Email: "frank@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
	})
}

func TestUserService_SignupPasswordTooLong(t *testing.T) {
	svc := newUserService(t, nil, false)

	_, err := svc.Signup(context.Background(), SignupInput{
		Username: "gina",
		Email:    "gina@example.com",
		Password: strings.Repeat("a", 80),
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation), "got %v", err)
}
