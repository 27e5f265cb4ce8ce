package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"lifeclock/internal/audit"
	"lifeclock/internal/person/models"
	"lifeclock/internal/platform/metrics"
	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/platform/sentinel"
	"lifeclock/pkg/platform/tx"
	"lifeclock/pkg/requestcontext"
)

// Store persists persons scoped by owner.
type Store interface {
	Create(ctx context.Context, p *models.Person) error
	FindByID(ctx context.Context, userID id.UserID, personID id.PersonID) (*models.Person, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Person, error)
	CountByUser(ctx context.Context, userID id.UserID) (int, error)
	Update(ctx context.Context, p *models.Person) error
	Delete(ctx context.Context, userID id.UserID, personID id.PersonID) error
}

// RemainTimeCalculator is the lifespan service.
type RemainTimeCalculator interface {
	RemainTime(ctx context.Context, sex string, birth time.Time) (int64, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// remainTimeConcurrency bounds parallel lookups when listing persons.
const remainTimeConcurrency = 4

var errLimitReached = dErrors.New(dErrors.CodeForbidden, "cannot register more than 10 persons")

// PersonWithRemain pairs a person with their remaining seconds at request time.
type PersonWithRemain struct {
	Person     *models.Person
	RemainTime int64
}

// ExpectedEnd is the statistically expected end of a person's life. Found is
// false when the average is already exceeded or no statistic applies.
type ExpectedEnd struct {
	Person *models.Person
	At     time.Time
	Found  bool
}

// ImportResult counts persons created and skipped by an import.
type ImportResult struct {
	Imported int
	Skipped  int
}

type Service struct {
	store   Store
	remain  RemainTimeCalculator
	tx      tx.Runner
	auditor AuditPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(store Store, remain RemainTimeCalculator, opts ...Option) *Service {
	s := &Service{
		store:  store,
		remain: remain,
		tx:     tx.NoopRunner{},
		logger: slog.Default(),
		tracer: otel.Tracer("lifeclock/person"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Find(ctx context.Context, userID id.UserID, personID id.PersonID) (*models.Person, error) {
	p, err := s.store.FindByID(ctx, userID, personID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to load person")
	}
	return p, nil
}

// FindAll lists the user's persons with their remaining time. Lookups run
// concurrently; the result keeps the store order.
func (s *Service) FindAll(ctx context.Context, userID id.UserID) ([]PersonWithRemain, error) {
	ctx, span := s.tracer.Start(ctx, "person.FindAll")
	defer span.End()

	persons, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list persons failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list persons")
	}
	span.SetAttributes(attribute.Int("person.count", len(persons)))

	out := make([]PersonWithRemain, len(persons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(remainTimeConcurrency)
	for i, p := range persons {
		g.Go(func() error {
			remain, err := s.remain.RemainTime(gctx, string(p.Sex), p.BirthDate)
			if err != nil {
				return err
			}
			out[i] = PersonWithRemain{Person: p, RemainTime: remain}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "remain time failed")
		return nil, err
	}
	return out, nil
}

// CheckCount returns the number of registered persons and a forbidden error
// once the limit is reached.
func (s *Service) CheckCount(ctx context.Context, userID id.UserID) (int, error) {
	n, err := s.store.CountByUser(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count persons")
	}
	if n >= models.MaxPersonsPerUser {
		return n, errLimitReached
	}
	return n, nil
}

func (s *Service) Create(ctx context.Context, userID id.UserID, details models.Details) (*models.Person, error) {
	var created *models.Person
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.CheckCount(ctx, userID); err != nil {
			return err
		}
		p := newPerson(ctx, userID, details)
		if err := s.store.Create(ctx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create person")
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementPersonsCreated(1)
	s.emit(ctx, audit.EventPersonCreated, userID, created.ID, nil)
	s.logger.InfoContext(ctx, "person created",
		"user_id", userID.String(),
		"person_id", created.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID id.UserID, personID id.PersonID, details models.Details) error {
	p, err := s.store.FindByID(ctx, userID, personID)
	if err != nil {
		return translateStoreErr(err, "failed to load person")
	}
	p.Name = details.Name
	p.Sex = details.Sex
	p.BirthDate = details.BirthDate
	p.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, p); err != nil {
		return translateStoreErr(err, "failed to update person")
	}
	s.emit(ctx, audit.EventPersonUpdated, userID, personID, nil)
	return nil
}

func (s *Service) Delete(ctx context.Context, userID id.UserID, personID id.PersonID) error {
	p, err := s.store.FindByID(ctx, userID, personID)
	if err != nil {
		return translateStoreErr(err, "failed to load person")
	}
	if p.IsAccountUser {
		return dErrors.New(dErrors.CodeForbidden, "the account person cannot be deleted")
	}
	if err := s.store.Delete(ctx, userID, personID); err != nil {
		return translateStoreErr(err, "failed to delete person")
	}
	s.emit(ctx, audit.EventPersonDeleted, userID, personID, nil)
	return nil
}

// Import creates persons from details in order until the limit is reached;
// the rest are counted as skipped.
func (s *Service) Import(ctx context.Context, userID id.UserID, details []models.Details) (ImportResult, error) {
	var result ImportResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		result = ImportResult{}
		n, err := s.store.CountByUser(ctx, userID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count persons")
		}
		for _, d := range details {
			if n >= models.MaxPersonsPerUser {
				result.Skipped++
				continue
			}
			if err := s.store.Create(ctx, newPerson(ctx, userID, d)); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to import person")
			}
			n++
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	s.metrics.IncrementPersonsCreated(result.Imported)
	s.metrics.IncrementPersonsImported(result.Imported)
	s.emit(ctx, audit.EventPersonsImported, userID, id.PersonID{}, map[string]string{
		"imported": strconv.Itoa(result.Imported),
		"skipped":  strconv.Itoa(result.Skipped),
	})
	return result, nil
}

// ExpectedEnd computes now + remaining time for the person.
func (s *Service) ExpectedEnd(ctx context.Context, userID id.UserID, personID id.PersonID) (ExpectedEnd, error) {
	p, err := s.Find(ctx, userID, personID)
	if err != nil {
		return ExpectedEnd{}, err
	}
	remain, err := s.remain.RemainTime(ctx, string(p.Sex), p.BirthDate)
	if err != nil {
		return ExpectedEnd{}, err
	}
	if remain <= 0 {
		return ExpectedEnd{Person: p}, nil
	}
	at := requestcontext.Now(ctx).Add(time.Duration(remain) * time.Second)
	return ExpectedEnd{Person: p, At: at, Found: true}, nil
}

func newPerson(ctx context.Context, userID id.UserID, d models.Details) *models.Person {
	now := requestcontext.Now(ctx)
	return &models.Person{
		ID:        id.NewPersonID(),
		UserID:    userID,
		Name:      d.Name,
		Sex:       d.Sex,
		BirthDate: d.BirthDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) emit(ctx context.Context, eventType audit.EventType, userID id.UserID, personID id.PersonID, attrs map[string]string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{Type: eventType, UserID: userID.String(), Attributes: attrs}
	if !personID.IsNil() {
		event.Subject = personID.String()
	}
	s.auditor.Emit(ctx, event)
}

func translateStoreErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "person not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
