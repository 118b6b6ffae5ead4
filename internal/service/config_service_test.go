package service

import (
	"testing"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestValidateConfigValue(t *testing.T) {
	cases := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{key: domain.ConfigCommissionRate, value: "0.15"},
		{key: domain.ConfigCommissionRate, value: "1.5", wantErr: true},
		{key: domain.ConfigCommissionRate, value: "abc", wantErr: true},
		{key: domain.ConfigUSDToPENRate, value: "3.75"},
		{key: domain.ConfigUSDToPENRate, value: "-1", wantErr: true},
		{key: domain.ConfigMaxLoginAttempts, value: "5"},
		{key: domain.ConfigMaxLoginAttempts, value: "2.5", wantErr: true},
		{key: domain.ConfigLoginLockDuration, value: "0", wantErr: true},
		{key: domain.ConfigSiteName, value: "Luffy"},
		{key: domain.ConfigSiteName, value: "", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.key+"="+c.value, func(t *testing.T) {
			err := validateConfigValue(c.key, c.value)
			assert.Equal(t, c.wantErr, err != nil)
		})
	}
}

type ConfigServiceTestSuite struct {
	serviceSuite
	configService *ConfigService
}

func TestConfigServiceSuite(t *testing.T) {
	suite.Run(t, new(ConfigServiceTestSuite))
}

func (s *ConfigServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	configService, err := NewConfigService(s.mockUOW)
	s.Require().NoError(err)
	s.configService = configService
}

func (s *ConfigServiceTestSuite) TestUpdate() {
	s.mockConfigRepo.EXPECT().Get(gomock.Any(), domain.ConfigCommissionRate).
		Return(&domain.SystemConfig{Key: domain.ConfigCommissionRate, Value: "0.10"}, nil)
	s.mockConfigRepo.EXPECT().Update(gomock.Any(), domain.ConfigCommissionRate, "0.12").
		Return(&domain.SystemConfig{Key: domain.ConfigCommissionRate, Value: "0.12"}, nil)
	s.expectAudit(domain.AuditConfigUpdated)

	cfg, err := s.configService.Update(s.T().Context(), domain.Actor{UserID: 1}, "commission_rate", " 0.12 ")
	s.Require().NoError(err)
	s.Equal("0.12", cfg.Value)
}

func (s *ConfigServiceTestSuite) TestUpdate_UnknownKey() {
	s.mockConfigRepo.EXPECT().Get(gomock.Any(), "NOPE").Return(nil, domain.ErrRecordNotFound)

	_, err := s.configService.Update(s.T().Context(), domain.Actor{UserID: 1}, "nope", "1")
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}
