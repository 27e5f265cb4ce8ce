//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"lifeclock/internal/lifespan/models"
	"lifeclock/internal/lifespan/store"
	"lifeclock/pkg/platform/sentinel"
	"lifeclock/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "lifespan_statistics"))
	for _, st := range []models.Statistic{
		{Sex: models.SexMale, Year: 2022, Age: 81.05},
		{Sex: models.SexMale, Year: 2023, Age: 81.09},
		{Sex: models.SexFemale, Year: 2023, Age: 87.14},
	} {
		s.Require().NoError(s.store.Upsert(ctx, st))
	}
}

func (s *PostgresStoreSuite) TestFindLatest() {
	ctx := context.Background()

	st, err := s.store.FindLatest(ctx, models.SexMale, 2030)
	s.Require().NoError(err)
	s.Equal(2023, st.Year)
	s.InDelta(81.09, st.Age, 1e-9)

	st, err = s.store.FindLatest(ctx, models.SexMale, 2022)
	s.Require().NoError(err)
	s.Equal(2022, st.Year)

	_, err = s.store.FindLatest(ctx, models.SexMale, 2000)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestFindByYear() {
	ctx := context.Background()

	st, err := s.store.FindByYear(ctx, models.SexFemale, 2023)
	s.Require().NoError(err)
	s.InDelta(87.14, st.Age, 1e-9)

	_, err = s.store.FindByYear(ctx, models.SexFemale, 2022)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpsertReplaces() {
	ctx := context.Background()
	s.Require().NoError(s.store.Upsert(ctx, models.Statistic{Sex: models.SexMale, Year: 2023, Age: 81.5}))

	st, err := s.store.FindByYear(ctx, models.SexMale, 2023)
	s.Require().NoError(err)
	s.InDelta(81.5, st.Age, 1e-9)

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
}
