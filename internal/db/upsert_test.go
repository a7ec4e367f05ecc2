package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "firms",
		Columns:      []string{"id", "name"},
		ConflictKeys: []string{"id"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_InvalidConfig(t *testing.T) {
	rows := [][]any{{"1", "a"}}
	tests := []struct {
		name string
		cfg  UpsertConfig
		want string
	}{
		{"no table", UpsertConfig{Columns: []string{"id"}, ConflictKeys: []string{"id"}}, "no table specified"},
		{"no columns", UpsertConfig{Table: "firms", ConflictKeys: []string{"id"}}, "no columns specified"},
		{"no keys", UpsertConfig{Table: "firms", Columns: []string{"id"}}, "no conflict keys specified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BulkUpsert(context.Background(), nil, tt.cfg, rows)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBulkUpsert_CopiesAndMerges(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	cfg := UpsertConfig{
		Table:        "advisor_profiles",
		Columns:      []string{"id", "name", "data"},
		ConflictKeys: []string{"id"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_upsert_advisor_profiles"`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_upsert_advisor_profiles"}, cfg.Columns).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "advisor_profiles"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, cfg, [][]any{
		{"a1", "Sarah", []byte("{}")},
		{"a2", "Michael", []byte("{}")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMergeSQL(t *testing.T) {
	got := mergeSQL(UpsertConfig{
		Table:        "public.firms",
		Columns:      []string{"id", "name"},
		ConflictKeys: []string{"id"},
	}, "_upsert_public_firms")
	assert.Equal(t,
		`INSERT INTO "public"."firms" ("id", "name") SELECT "id", "name" FROM "_upsert_public_firms" ON CONFLICT ("id") DO UPDATE SET "name" = EXCLUDED."name"`,
		got)

	got = mergeSQL(UpsertConfig{
		Table:        "matches",
		Columns:      []string{"user_id", "match_id"},
		ConflictKeys: []string{"user_id", "match_id"},
	}, "_upsert_matches")
	assert.Contains(t, got, "DO NOTHING")
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", `"simple"`},
		{"public.firms", `"public"."firms"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeTable(tt.input))
		})
	}
}
