package app

import (
	"io"
	"testing"

	"github.com/fsdevblog/luffy-streaming/internal/config"
	"github.com/fsdevblog/luffy-streaming/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
)

type AppTestSuite struct {
	suite.Suite
	hook *test.Hook
	log  *logrus.Logger
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	s.log = logger.New(io.Discard)
	s.hook = test.NewLocal(s.log)
}

func (s *AppTestSuite) TestWarnDisabledFeatures_NoRedis() {
	a := New(&config.Config{}, s.log)
	a.warnDisabledFeatures()

	s.Require().Len(s.hook.AllEntries(), 1)
	entry := s.hook.LastEntry()
	s.Equal(logrus.WarnLevel, entry.Level)
	s.Contains(entry.Message, "login lockout disabled")
	s.Equal([]string{"MAX_LOGIN_ATTEMPTS", "LOGIN_LOCK_DURATION"}, entry.Data["ignored_configs"])
}

func (s *AppTestSuite) TestWarnDisabledFeatures_WithRedis() {
	a := New(&config.Config{RedisAddr: "localhost:6379"}, s.log)
	a.warnDisabledFeatures()

	s.Empty(s.hook.AllEntries())
}
