//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"guildgate/internal/auth/models"
	"guildgate/pkg/platform/sentinel"
	"guildgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
	ctx   context.Context
	now   time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.now = time.Now().UTC().Truncate(time.Second)
	s.store = NewPostgresStore(s.pg.DB, WithPostgresClock(func() time.Time { return s.now }))
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
	_, err := s.pg.DB.ExecContext(s.ctx, `TRUNCATE sessions`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) session(userID string) models.Session {
	return models.Session{
		User:      models.User{ID: userID, Username: "alice", Roles: []string{"member"}},
		Device:    "Safari on macOS",
		CreatedAt: s.now,
		ExpiresAt: s.now.Add(24 * time.Hour),
	}
}

func (s *PostgresStoreSuite) TestCreateAndResolve() {
	handle, err := s.store.Create(s.ctx, s.session("42"))
	s.Require().NoError(err)
	s.NotEmpty(handle)

	got, err := s.store.Resolve(s.ctx, handle)
	s.Require().NoError(err)
	s.Equal("42", got.User.ID)
	s.Equal("alice", got.User.Username)
	s.Equal(handle, got.Handle)
}

func (s *PostgresStoreSuite) TestResolveUnknownHandle() {
	_, err := s.store.Resolve(s.ctx, "no-such-handle")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestRepeatLoginUpserts() {
	first, err := s.store.Create(s.ctx, s.session("42"))
	s.Require().NoError(err)
	second, err := s.store.Create(s.ctx, s.session("42"))
	s.Require().NoError(err)
	s.NotEqual(first, second)

	_, err = s.store.Resolve(s.ctx, first)
	s.ErrorIs(err, sentinel.ErrNotFound)

	got, err := s.store.Resolve(s.ctx, second)
	s.Require().NoError(err)
	s.Equal("42", got.User.ID)

	// Exactly one row per user, no history.
	var count int
	s.Require().NoError(s.pg.DB.QueryRowContext(s.ctx,
		`SELECT COUNT(*) FROM sessions WHERE user_id = $1`, "42").Scan(&count))
	s.Equal(1, count)
}

func (s *PostgresStoreSuite) TestExpiredSessionReaped() {
	handle, err := s.store.Create(s.ctx, s.session("42"))
	s.Require().NoError(err)

	s.now = s.now.Add(25 * time.Hour)

	_, err = s.store.Resolve(s.ctx, handle)
	s.ErrorIs(err, sentinel.ErrExpired)

	var count int
	s.Require().NoError(s.pg.DB.QueryRowContext(s.ctx,
		`SELECT COUNT(*) FROM sessions WHERE handle = $1`, handle).Scan(&count))
	s.Zero(count)
}

func (s *PostgresStoreSuite) TestDestroy() {
	handle, err := s.store.Create(s.ctx, s.session("42"))
	s.Require().NoError(err)

	s.Require().NoError(s.store.Destroy(s.ctx, handle))

	_, err = s.store.Resolve(s.ctx, handle)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDestroyUnknownHandleIsNoop() {
	s.NoError(s.store.Destroy(s.ctx, "no-such-handle"))
}
