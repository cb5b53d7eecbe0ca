package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	pgxDup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_profiles_email"}
	pqDup := &pq.Error{Code: "23505", Constraint: "idx_products_sku"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"nil error", nil, "", false},
		{"pgx duplicate", pgxDup, "", true},
		{"pgx duplicate matching constraint", pgxDup, "idx_profiles_email", true},
		{"pgx duplicate other constraint", pgxDup, "idx_products_sku", false},
		{"pgx wrapped", fmt.Errorf("creating profile: %w", pgxDup), "idx_profiles_email", true},
		{"pgx non-unique error", &pgconn.PgError{Code: "23503"}, "", false},
		{"pq duplicate", pqDup, "idx_products_sku", true},
		{"pq non-unique error", &pq.Error{Code: "23503"}, "idx_products_sku", false},
		{"stringified duplicate", errors.New(`duplicate key value violates unique constraint "idx_entities_cnpj" (SQLSTATE 23505)`), "", true},
		{"stringified with constraint", errors.New(`duplicate key value violates unique constraint "idx_entities_cnpj" (SQLSTATE 23505)`), "idx_entities_cnpj", true},
		{"unrelated error", errors.New("connection refused"), "", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Errorf("IsUniqueViolation(%v, %q) = %v, want %v", tc.err, tc.constraint, got, tc.want)
			}
		})
	}
}
