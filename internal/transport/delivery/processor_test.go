package delivery

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/metrics"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/fsdevblog/luffy-streaming/internal/transport/delivery/mocks"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type ProcessorTestSuite struct {
	suite.Suite
	processor   *Processor
	mockService *mocks.MockServicer
	metrics     *metrics.Metrics
	ctrl        *gomock.Controller
}

func (s *ProcessorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockServicer(s.ctrl)
	s.metrics = metrics.New()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.processor = New(s.mockService, s.metrics, logger).
		SetWorkers(2).
		SetLimitPerIteration(10).
		SetIdleInterval(10 * time.Millisecond)
}

func (s *ProcessorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestProcessorSuite(t *testing.T) {
	suite.Run(t, new(ProcessorTestSuite))
}

func (s *ProcessorTestSuite) scrape() string {
	rec := httptest.NewRecorder()
	s.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func (s *ProcessorTestSuite) TestProcess_NoOrders() {
	s.mockService.EXPECT().
		OrdersForAutoDelivery(gomock.Any(), uint(10)).
		Return(nil, nil)

	err := s.processor.process(s.T().Context())
	s.ErrorIs(err, ErrNoOrders)
}

func (s *ProcessorTestSuite) TestProcess_ProduceError() {
	dbErr := errors.New("connection refused")
	s.mockService.EXPECT().
		OrdersForAutoDelivery(gomock.Any(), uint(10)).
		Return(nil, dbErr)

	err := s.processor.process(s.T().Context())
	s.ErrorIs(err, dbErr)
	s.NotErrorIs(err, ErrNoOrders)
}

// TestProcess_Mixed заказы с разным исходом не мешают друг другу.
func (s *ProcessorTestSuite) TestProcess_Mixed() {
	s.mockService.EXPECT().
		OrdersForAutoDelivery(gomock.Any(), uint(10)).
		Return([]int64{1, 2, 3, 4}, nil)

	s.mockService.EXPECT().AutoDeliver(gomock.Any(), int64(1)).
		Return(&service.AutoDeliverResult{OrderID: 1, Delivered: []int64{11, 12}, Completed: true}, nil)
	s.mockService.EXPECT().AutoDeliver(gomock.Any(), int64(2)).
		Return(&service.AutoDeliverResult{OrderID: 2, Delivered: []int64{21}}, nil)
	s.mockService.EXPECT().AutoDeliver(gomock.Any(), int64(3)).
		Return(nil, errors.New("deadlock detected"))
	s.mockService.EXPECT().AutoDeliver(gomock.Any(), int64(4)).
		Return(&service.AutoDeliverResult{OrderID: 4}, nil)

	s.Require().NoError(s.processor.process(s.T().Context()))

	body := s.scrape()
	s.Contains(body, `luffy_delivery_runs_total{result="completed"} 1`)
	s.Contains(body, `luffy_delivery_runs_total{result="delivered"} 1`)
	s.Contains(body, `luffy_delivery_runs_total{result="failed"} 1`)
	s.Contains(body, `luffy_delivery_runs_total{result="idle"} 1`)
	s.Contains(body, `luffy_delivery_items_total 3`)
}

// TestProcess_NoProgress если ни по одному заказу ничего не выдано, итерация считается холостой.
func (s *ProcessorTestSuite) TestProcess_NoProgress() {
	s.mockService.EXPECT().
		OrdersForAutoDelivery(gomock.Any(), uint(10)).
		Return([]int64{7}, nil)
	s.mockService.EXPECT().AutoDeliver(gomock.Any(), int64(7)).
		Return(&service.AutoDeliverResult{OrderID: 7}, nil)

	err := s.processor.process(s.T().Context())
	s.ErrorIs(err, ErrNoOrders)
}

func (s *ProcessorTestSuite) TestRun_StopsOnCancel() {
	ctx, cancel := context.WithCancel(s.T().Context())

	s.mockService.EXPECT().
		OrdersForAutoDelivery(gomock.Any(), uint(10)).
		Return(nil, nil).
		MinTimes(1).
		Do(func(context.Context, uint) { cancel() })

	done := make(chan struct{})
	go func() {
		s.processor.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("processor did not stop after cancel")
	}
}

func (s *ProcessorTestSuite) TestSetters_IgnoreZero() {
	p := New(s.mockService, nil, logrus.New()).SetWorkers(0).SetLimitPerIteration(0).SetIdleInterval(0)
	s.Equal(defaultWorkers, p.workers)
	s.Equal(defaultLimitPerIteration, p.limitPerIteration)
	s.Equal(defaultIdleInterval, p.idleInterval)

	s.GreaterOrEqual(p.pause(), defaultIdleInterval)
	s.LessOrEqual(p.pause(), defaultIdleInterval+defaultIdleInterval/5)
}
