package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
	"github.com/aqasim81/reservation-provisioner/internal/analyzer/rules"
)

func TestCreateObjectRule_ID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "create-without-if-not-exists", rules.NewCreateObjectRule().ID())
}

func TestCreateObjectRule_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sql        string
		wantCount  int
		wantObject string
	}{
		{
			name:       "CREATE TABLE is MEDIUM",
			sql:        "CREATE TABLE users (id UUID PRIMARY KEY);",
			wantCount:  1,
			wantObject: "users",
		},
		{
			name:      "CREATE TABLE IF NOT EXISTS is safe",
			sql:       "CREATE TABLE IF NOT EXISTS users (id UUID PRIMARY KEY);",
			wantCount: 0,
		},
		{
			name:       "schema-qualified table",
			sql:        "CREATE TABLE public.devices (id INT);",
			wantCount:  1,
			wantObject: "public.devices",
		},
		{
			name:       "CREATE EXTENSION is MEDIUM",
			sql:        `CREATE EXTENSION "uuid-ossp";`,
			wantCount:  1,
			wantObject: "uuid-ossp",
		},
		{
			name:      "CREATE EXTENSION IF NOT EXISTS is safe",
			sql:       `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
			wantCount: 0,
		},
		{
			name:       "CREATE SCHEMA is MEDIUM",
			sql:        "CREATE SCHEMA booking;",
			wantCount:  1,
			wantObject: "booking",
		},
		{
			name:       "CREATE SEQUENCE is MEDIUM",
			sql:        "CREATE SEQUENCE reservation_number_seq;",
			wantCount:  1,
			wantObject: "reservation_number_seq",
		},
		{
			name:      "CREATE SEQUENCE IF NOT EXISTS is safe",
			sql:       "CREATE SEQUENCE IF NOT EXISTS reservation_number_seq;",
			wantCount: 0,
		},
		{
			name:      "non-CREATE statement ignored",
			sql:       "SELECT 1;",
			wantCount: 0,
		},
	}

	rule := rules.NewCreateObjectRule()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := checkLast(t, rule, tt.sql)
			assert.Len(t, findings, tt.wantCount)

			if tt.wantCount > 0 {
				assert.Equal(t, analyzer.Medium, findings[0].Severity)
				assert.Equal(t, tt.wantObject, findings[0].Object)
				assert.Equal(t, rule.ID(), findings[0].Rule)
			}
		})
	}
}
