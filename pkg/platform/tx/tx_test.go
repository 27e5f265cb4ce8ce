package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)

	ctx := WithTx(context.Background(), nil)
	_, ok = From(ctx)
	assert.False(t, ok, "nil tx must not be stored")

	fake := &sql.Tx{}
	got, ok := From(WithTx(context.Background(), fake))
	assert.True(t, ok)
	assert.Same(t, fake, got)
}

func TestQuerierFallsBackToDB(t *testing.T) {
	db := &sql.DB{}
	assert.Equal(t, DBTX(db), Querier(context.Background(), db))

	fake := &sql.Tx{}
	assert.Equal(t, DBTX(fake), Querier(WithTx(context.Background(), fake), db))
}

func TestNoopRunner(t *testing.T) {
	boom := errors.New("boom")
	called := false
	err := NoopRunner{}.RunInTx(context.Background(), func(ctx context.Context) error {
		called = true
		return boom
	})
	assert.True(t, called)
	assert.ErrorIs(t, err, boom)
}
