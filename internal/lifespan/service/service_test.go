package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks StatisticStore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lifeclock/internal/lifespan/models"
	"lifeclock/internal/lifespan/service/mocks"
	"lifeclock/internal/lifespan/store"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/lifetime"
	"lifeclock/pkg/platform/sentinel"
	"lifeclock/pkg/requestcontext"
)

type RemainTimeSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	stats *mocks.MockStatisticStore
	now   time.Time
	ctx   context.Context
}

func TestRemainTimeSuite(t *testing.T) {
	suite.Run(t, new(RemainTimeSuite))
}

func (s *RemainTimeSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.stats = mocks.NewMockStatisticStore(s.ctrl)
	s.now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *RemainTimeSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RemainTimeSuite) newService(opts ...Option) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(s.stats, append([]Option{WithLogger(logger)}, opts...)...)
}

func (s *RemainTimeSuite) TestLatestStrategy() {
	birth := time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC)

	s.Run("uses greatest year not after current year", func() {
		s.stats.EXPECT().FindLatest(gomock.Any(), models.SexMale, 2024).
			Return(&models.Statistic{Sex: models.SexMale, Year: 2023, Age: 81.09}, nil)

		got, err := s.newService().RemainTime(s.ctx, "male", birth)
		s.Require().NoError(err)

		want := lifetime.AgeToSeconds(81.09) - (s.now.Unix() - birth.Unix())
		s.Equal(want, got)
	})

	s.Run("is the default", func() {
		s.Equal(models.StrategyLatest, s.newService().Strategy())
	})
}

func (s *RemainTimeSuite) TestPreviousYearStrategy() {
	birth := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	s.stats.EXPECT().FindByYear(gomock.Any(), models.SexFemale, 2023).
		Return(&models.Statistic{Sex: models.SexFemale, Year: 2023, Age: 87.14}, nil)

	got, err := s.newService(WithStrategy(models.StrategyPreviousYear)).RemainTime(s.ctx, "female", birth)
	s.Require().NoError(err)
	s.Equal(lifetime.AgeToSeconds(87.14)-(s.now.Unix()-birth.Unix()), got)
}

func (s *RemainTimeSuite) TestNoStatisticReturnsZero() {
	s.stats.EXPECT().FindLatest(gomock.Any(), models.Sex("unknown"), 2024).
		Return(nil, sentinel.ErrNotFound)

	got, err := s.newService().RemainTime(s.ctx, "unknown", time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Zero(got)
}

func (s *RemainTimeSuite) TestStoreFailureIsInternal() {
	s.stats.EXPECT().FindLatest(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, err := s.newService().RemainTime(s.ctx, "male", time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *RemainTimeSuite) TestExceededIsNegative() {
	s.stats.EXPECT().FindLatest(gomock.Any(), models.SexMale, 2024).
		Return(&models.Statistic{Sex: models.SexMale, Year: 2023, Age: 81.09}, nil)

	got, err := s.newService().RemainTime(s.ctx, "male", time.Date(1930, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Negative(got)
}

// The remaining time for fixed inputs never increases as the clock advances.
func TestRemainTimeMonotonic(t *testing.T) {
	mem := store.NewInMemory()
	if err := mem.Upsert(context.Background(), models.Statistic{Sex: models.SexMale, Year: 2023, Age: 81.09}); err != nil {
		t.Fatal(err)
	}
	svc := New(mem, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	birth := time.Date(1985, 7, 7, 0, 0, 0, 0, time.UTC)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := int64(1 << 62)
	for _, step := range []time.Duration{0, time.Second, time.Minute, time.Hour, 24 * time.Hour, 300 * 24 * time.Hour} {
		ctx := requestcontext.WithTime(context.Background(), start.Add(step))
		got, err := svc.RemainTime(ctx, "male", birth)
		if err != nil {
			t.Fatal(err)
		}
		if got > prev {
			t.Fatalf("remaining time increased at +%s: %d > %d", step, got, prev)
		}
		prev = got
	}
}

// Against the real clock the result stays within tolerance of the formula.
func TestRemainTimeWallClock(t *testing.T) {
	mem := store.NewInMemory()
	_ = mem.Upsert(context.Background(), models.Statistic{Sex: models.SexFemale, Year: time.Now().Year(), Age: 87.14})
	svc := New(mem, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	birth := time.Date(1995, 3, 3, 0, 0, 0, 0, time.UTC)

	got, err := svc.RemainTime(context.Background(), "female", birth)
	if err != nil {
		t.Fatal(err)
	}
	want := lifetime.AgeToSeconds(87.14) - (time.Now().Unix() - birth.Unix())
	if diff := got - want; diff < -2 || diff > 2 {
		t.Fatalf("remain time %d outside tolerance of %d", got, want)
	}
}

func TestRemainingSecondsTruncatesToWholeSeconds(t *testing.T) {
	birth := time.Date(2000, 1, 1, 0, 0, 0, 900_000_000, time.UTC)
	now := time.Date(2000, 1, 1, 0, 0, 10, 100_000_000, time.UTC)
	// floor(now) - floor(birth) = 10
	if got := RemainingSeconds(1, birth, now); got != lifetime.SecondsPerYear-10 {
		t.Fatalf("got %d", got)
	}
}
