package warehouse

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

// fakeRows serves canned daily price rows
type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.pos-1], nil }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	*dest[0].(*time.Time) = row[0].(time.Time)
	for i := 1; i < len(dest); i++ {
		p := dest[i].(**float64)
		if row[i] == nil {
			*p = nil
			continue
		}
		v := row[i].(float64)
		*p = &v
	}
	return nil
}

type fakeQuerier struct {
	rows *fakeRows
	err  error
	args []any
}

func (q *fakeQuerier) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	q.args = args
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func day(d int) time.Time { return time.Date(2024, 4, d, 0, 0, 0, 0, time.UTC) }

func TestFetchSymbol(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{rows: [][]any{
		{day(1), 10.0, 11.0, 9.0, 10.5, 1000.0},
		{day(2), 10.5, 12.0, 10.0, nil, 1200.0},
		{day(3), 11.0, 12.5, 10.8, 12.0, nil},
	}}}
	s := New(q, logger.Nop())

	raw, err := s.FetchSymbol(context.Background(), " mbb ")
	require.NoError(t, err)

	assert.Equal(t, []any{"MBB", DefaultBars}, q.args)
	assert.Equal(t, []float64{10.5, 12.0}, raw.Series.Closes(), "null close dropped")
	assert.True(t, math.IsNaN(raw.Series.Volumes()[1]))

	code, ok := raw.Payload.Lookup("symbol")
	require.True(t, ok)
	assert.Equal(t, "MBB", code)
}

func TestFetchSymbolEmpty(t *testing.T) {
	s := New(&fakeQuerier{rows: &fakeRows{}}, logger.Nop())

	_, err := s.FetchSymbol(context.Background(), "NEW")
	require.Error(t, err)
	assert.Equal(t, source.KindEmpty, source.KindOf(err))
}

func TestFetchSymbolQueryError(t *testing.T) {
	s := New(&fakeQuerier{err: errors.New("connection refused")}, logger.Nop())

	_, err := s.FetchSymbol(context.Background(), "MBB")
	require.Error(t, err)
	assert.Equal(t, source.KindNetwork, source.KindOf(err))
}

func TestFetchSymbolRowsError(t *testing.T) {
	s := New(&fakeQuerier{rows: &fakeRows{err: errors.New("broken pipe")}}, logger.Nop())

	_, err := s.FetchSymbol(context.Background(), "MBB")
	require.Error(t, err)
	assert.Equal(t, source.KindDecode, source.KindOf(err))
}
