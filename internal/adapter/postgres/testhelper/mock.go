// Package testhelper provides a mock database for repository tests.
package testhelper

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/avasilev/taskpulse/internal/adapter/postgres"
)

// NewMockQuerier returns a postgres.Querier backed by pgxmock. Expectations
// are registered on the returned mock; the pool is closed via t.Cleanup.
func NewMockQuerier(t *testing.T) (postgres.Querier, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("testhelper: failed to create pgxmock pool: %v", err)
	}

	t.Cleanup(func() {
		mock.Close()
	})

	return mock, mock
}

// ExpectationsWereMet fails the test if any registered expectation was not
// satisfied.
func ExpectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet mock expectations: %v", err)
	}
}
