package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"lifeclock/internal/audit"
	authservice "lifeclock/internal/auth/service"
	"lifeclock/internal/auth/store/revocation"
	userstore "lifeclock/internal/auth/store/user"
	httpapi "lifeclock/internal/http"
	lifespanmetrics "lifeclock/internal/lifespan/metrics"
	"lifeclock/internal/lifespan/seed"
	lifespanservice "lifeclock/internal/lifespan/service"
	lifespanstore "lifeclock/internal/lifespan/store"
	personservice "lifeclock/internal/person/service"
	personstore "lifeclock/internal/person/store"
	"lifeclock/internal/platform/config"
	"lifeclock/internal/platform/postgres"
	platformredis "lifeclock/internal/platform/redis"
	ratelimitservice "lifeclock/internal/ratelimit/service"
	"lifeclock/internal/ratelimit/store/bucket"
	"lifeclock/pkg/platform/tx"
)

// infra holds the optional external connections. A nil field means the
// in-memory implementation is used for that concern.
type infra struct {
	db    *sql.DB
	redis *platformredis.Client
	kafka *audit.KafkaSink
}

func openInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if db != nil {
		in.db = db
		if err := postgres.Migrate(ctx, db); err != nil {
			in.Close()
			return nil, err
		}
		log.Info("connected to postgres")
	} else {
		log.Info("DATABASE_URL not set; using in-memory stores")
	}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close()
		return nil, err
	}
	if rdb != nil {
		in.redis = rdb
		log.Info("connected to redis")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			in.Close()
			return nil, fmt.Errorf("kafka audit sink: %w", err)
		}
		if err := sink.EnsureTopic(ctx, 1, 1); err != nil {
			log.Warn("could not ensure audit topic; relying on broker auto-creation",
				"topic", cfg.Kafka.AuditTopic,
				"error", err,
			)
		}
		in.kafka = sink
		log.Info("publishing audit events to kafka", "topic", cfg.Kafka.AuditTopic)
	}
	return in, nil
}

func (in *infra) Close() {
	if in.kafka != nil {
		in.kafka.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
}

func (in *infra) healthChecks() map[string]httpapi.HealthCheck {
	checks := map[string]httpapi.HealthCheck{}
	if in.db != nil {
		checks["postgres"] = in.db.PingContext
	}
	if in.redis != nil {
		checks["redis"] = in.redis.Health
	}
	if in.kafka != nil {
		checks["kafka"] = in.kafka.Ping
	}
	return checks
}

func (in *infra) auditSink(log *slog.Logger) audit.Sink {
	if in.kafka != nil {
		return in.kafka
	}
	return audit.NewLogSink(log)
}

// personStore serves both the person and the auth service.
type personStore interface {
	personservice.Store
	authservice.PersonStore
}

// stores is every persistence dependency of the services.
type stores struct {
	users       authservice.UserStore
	persons     personStore
	statistics  lifespanservice.StatisticStore
	revocations authservice.RevocationList
	buckets     ratelimitservice.BucketStore
	tx          tx.Runner
}

type statisticWriter interface {
	seed.Writer
	lifespanstore.Reader
}

func buildStores(ctx context.Context, cfg config.Config, in *infra, m *lifespanmetrics.Metrics, log *slog.Logger) (*stores, error) {
	st := &stores{tx: tx.NoopRunner{}}

	var stats statisticWriter
	if in.db != nil {
		st.users = userstore.NewPostgres(in.db)
		st.persons = personstore.NewPostgres(in.db)
		st.tx = postgres.NewTxRunner(in.db)
		stats = lifespanstore.NewPostgres(in.db)
	} else {
		st.users = userstore.New()
		st.persons = personstore.NewInMemory()
		stats = lifespanstore.NewInMemory()
	}

	if err := seedStatistics(ctx, cfg.Lifespan.StatisticsFile, stats, log); err != nil {
		return nil, err
	}

	st.statistics = stats
	st.revocations = revocation.NewInMemoryTRL()
	st.buckets = bucket.NewInMemoryBucketStore()
	if in.redis != nil {
		cache := lifespanstore.NewRedisCache(stats, in.redis.Client, cfg.Lifespan.CacheTTL, m, log)
		if err := cache.Invalidate(ctx); err != nil {
			log.Warn("failed to invalidate statistic cache", "error", err)
		}
		st.statistics = cache
		st.revocations = revocation.NewRedisTRL(in.redis.Client)
		st.buckets = bucket.NewRedisBucketStore(in.redis.Client)
	}
	return st, nil
}

func seedStatistics(ctx context.Context, path string, w seed.Writer, log *slog.Logger) error {
	stats := seed.Default()
	source := "embedded"
	if path != "" {
		loaded, err := seed.LoadFile(path)
		if err != nil {
			return err
		}
		stats, source = loaded, path
	}
	n, err := seed.Apply(ctx, w, stats)
	if err != nil {
		return err
	}
	log.Info("seeded lifespan statistics", "rows", n, "source", source)
	return nil
}
