//go:build integration

package redisrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/repository/redisrepo"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type LoginAttemptStoreTestSuite struct {
	suite.Suite
	container testcontainers.Container
	store     *redisrepo.LoginAttemptStore
}

func TestLoginAttemptStoreSuite(t *testing.T) {
	suite.Run(t, new(LoginAttemptStoreTestSuite))
}

func (s *LoginAttemptStoreTestSuite) SetupSuite() {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	endpoint, endpointErr := container.Endpoint(ctx, "")
	s.Require().NoError(endpointErr)

	rdb, rdbErr := redisrepo.New(ctx, endpoint)
	s.Require().NoError(rdbErr)
	s.store = redisrepo.NewLoginAttemptStore(rdb)
}

func (s *LoginAttemptStoreTestSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *LoginAttemptStoreTestSuite) TestLockAfterMaxAttempts() {
	ctx := context.Background()
	email := "Lock@Example.com"

	for range 2 {
		locked, err := s.store.RegisterFailure(ctx, email, 3, time.Minute)
		s.Require().NoError(err)
		s.False(locked)
	}
	isLocked, err := s.store.IsLocked(ctx, email)
	s.Require().NoError(err)
	s.False(isLocked)

	locked, err := s.store.RegisterFailure(ctx, email, 3, time.Minute)
	s.Require().NoError(err)
	s.True(locked)

	isLocked, err = s.store.IsLocked(ctx, "lock@example.com")
	s.Require().NoError(err)
	s.True(isLocked)

	s.Require().NoError(s.store.Reset(ctx, email))
	isLocked, err = s.store.IsLocked(ctx, email)
	s.Require().NoError(err)
	s.False(isLocked)
}
