package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store RemainTimeCalculator AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lifeclock/internal/audit"
	lifespan "lifeclock/internal/lifespan/models"
	"lifeclock/internal/person/models"
	"lifeclock/internal/person/service/mocks"
	"lifeclock/internal/person/store"
	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/requestcontext"
)

type PersonServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	remain  *mocks.MockRemainTimeCalculator
	auditor *mocks.MockAuditPublisher
	store   *store.InMemory
	service *Service
	owner   id.UserID
	now     time.Time
	ctx     context.Context
}

func TestPersonServiceSuite(t *testing.T) {
	suite.Run(t, new(PersonServiceSuite))
}

func (s *PersonServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.remain = mocks.NewMockRemainTimeCalculator(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)
	s.store = store.NewInMemory()
	s.service = New(s.store, s.remain,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.auditor),
	)
	s.owner = id.NewUserID()
	s.now = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *PersonServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func details(name string) models.Details {
	return models.Details{Name: name, Sex: lifespan.SexMale, BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *PersonServiceSuite) seed(n int, account bool) []*models.Person {
	var out []*models.Person
	for i := range n {
		p := &models.Person{
			ID:            id.NewPersonID(),
			UserID:        s.owner,
			Name:          "P",
			Sex:           lifespan.SexMale,
			BirthDate:     time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			IsAccountUser: account && i == 0,
			CreatedAt:     s.now.Add(time.Duration(i) * time.Second),
		}
		s.Require().NoError(s.store.Create(s.ctx, p))
		out = append(out, p)
	}
	return out
}

func (s *PersonServiceSuite) TestCreate() {
	s.Run("stores person and emits audit event", func() {
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, e audit.Event) {
				s.Equal(audit.EventPersonCreated, e.Type)
				s.Equal(s.owner.String(), e.UserID)
				s.NotEmpty(e.Subject)
			})

		p, err := s.service.Create(s.ctx, s.owner, details("Taro"))
		s.Require().NoError(err)
		s.Equal("Taro", p.Name)
		s.False(p.IsAccountUser)
		s.Equal(s.now, p.CreatedAt)
	})

	s.Run("rejected at the limit", func() {
		s.store = store.NewInMemory()
		s.service = New(s.store, s.remain, WithAuditPublisher(s.auditor))
		s.seed(models.MaxPersonsPerUser, true)

		_, err := s.service.Create(s.ctx, s.owner, details("Eleventh"))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *PersonServiceSuite) TestCheckCount() {
	s.seed(3, true)
	n, err := s.service.CheckCount(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal(3, n)

	s.seed(7, false)
	n, err = s.service.CheckCount(s.ctx, s.owner)
	s.Equal(10, n)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *PersonServiceSuite) TestFindAllKeepsOrderWithConcurrentLookups() {
	persons := s.seed(6, true)
	var inFlight, maxInFlight atomic.Int32
	s.remain.EXPECT().RemainTime(gomock.Any(), "male", gomock.Any()).
		Times(len(persons)).
		DoAndReturn(func(context.Context, string, time.Time) (int64, error) {
			n := inFlight.Add(1)
			for {
				cur := maxInFlight.Load()
				if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return 1000, nil
		})

	list, err := s.service.FindAll(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(list, len(persons))
	for i, p := range persons {
		s.Equal(p.ID, list[i].Person.ID)
		s.Equal(int64(1000), list[i].RemainTime)
	}
	s.LessOrEqual(maxInFlight.Load(), int32(remainTimeConcurrency))
	s.True(list[0].Person.IsAccountUser)
}

func (s *PersonServiceSuite) TestFindAllPropagatesLookupFailure() {
	s.seed(2, true)
	s.remain.EXPECT().RemainTime(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), dErrors.New(dErrors.CodeInternal, "failed to look up lifespan statistic")).
		MinTimes(1)

	_, err := s.service.FindAll(s.ctx, s.owner)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *PersonServiceSuite) TestFindIsOwnerScoped() {
	p := s.seed(1, false)[0]

	_, err := s.service.Find(s.ctx, id.NewUserID(), p.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	found, err := s.service.Find(s.ctx, s.owner, p.ID)
	s.Require().NoError(err)
	s.Equal(p.ID, found.ID)
}

func (s *PersonServiceSuite) TestUpdate() {
	p := s.seed(1, false)[0]
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any())

	later := s.now.Add(time.Hour)
	err := s.service.Update(requestcontext.WithTime(s.ctx, later), s.owner, p.ID, details("Renamed"))
	s.Require().NoError(err)

	found, err := s.store.FindByID(s.ctx, s.owner, p.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", found.Name)
	s.Equal(later, found.UpdatedAt)

	err = s.service.Update(s.ctx, s.owner, id.NewPersonID(), details("Nobody"))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *PersonServiceSuite) TestDelete() {
	persons := s.seed(2, true)

	s.Run("account person is protected", func() {
		err := s.service.Delete(s.ctx, s.owner, persons[0].ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("other persons are deleted", func() {
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any())
		s.Require().NoError(s.service.Delete(s.ctx, s.owner, persons[1].ID))
		_, err := s.store.FindByID(s.ctx, s.owner, persons[1].ID)
		s.Error(err)
	})

	s.Run("missing person", func() {
		err := s.service.Delete(s.ctx, s.owner, persons[1].ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *PersonServiceSuite) TestImportRespectsLimit() {
	s.seed(8, true)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e audit.Event) {
			s.Equal(audit.EventPersonsImported, e.Type)
			s.Equal("2", e.Attributes["imported"])
			s.Equal("1", e.Attributes["skipped"])
		})

	result, err := s.service.Import(s.ctx, s.owner, []models.Details{details("A"), details("B"), details("C")})
	s.Require().NoError(err)
	s.Equal(ImportResult{Imported: 2, Skipped: 1}, result)

	n, err := s.store.CountByUser(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal(models.MaxPersonsPerUser, n)
}

func (s *PersonServiceSuite) TestExpectedEnd() {
	p := s.seed(1, false)[0]

	s.Run("future end date", func() {
		s.remain.EXPECT().RemainTime(gomock.Any(), "male", p.BirthDate).Return(int64(86400), nil)
		end, err := s.service.ExpectedEnd(s.ctx, s.owner, p.ID)
		s.Require().NoError(err)
		s.True(end.Found)
		s.Equal(s.now.Add(24*time.Hour), end.At)
	})

	s.Run("exceeded or unknown", func() {
		s.remain.EXPECT().RemainTime(gomock.Any(), "male", p.BirthDate).Return(int64(-5), nil)
		end, err := s.service.ExpectedEnd(s.ctx, s.owner, p.ID)
		s.Require().NoError(err)
		s.False(end.Found)
		s.Equal(p.ID, end.Person.ID)
	})
}

func (s *PersonServiceSuite) TestStoreFailuresAreInternal() {
	mockStore := mocks.NewMockStore(s.ctrl)
	svc := New(mockStore, s.remain)

	mockStore.EXPECT().CountByUser(gomock.Any(), s.owner).Return(0, errors.New("connection reset"))
	_, err := svc.CheckCount(s.ctx, s.owner)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	mockStore.EXPECT().ListByUser(gomock.Any(), s.owner).Return(nil, errors.New("connection reset"))
	_, err = svc.FindAll(s.ctx, s.owner)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
