package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
	"github.com/aqasim81/reservation-provisioner/internal/analyzer/rules"
)

func TestCreateIndexRule_ID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "create-index-without-if-not-exists", rules.NewCreateIndexRule().ID())
}

func TestCreateIndexRule_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sql        string
		wantCount  int
		wantObject string
	}{
		{
			name:       "named index without IF NOT EXISTS is MEDIUM",
			sql:        "CREATE INDEX idx_reservations_user_id ON reservations (user_id);",
			wantCount:  1,
			wantObject: "idx_reservations_user_id",
		},
		{
			name:      "IF NOT EXISTS is safe",
			sql:       "CREATE INDEX IF NOT EXISTS idx_reservations_user_id ON reservations (user_id);",
			wantCount: 0,
		},
		{
			name:       "unique index",
			sql:        "CREATE UNIQUE INDEX idx_users_email ON users (email);",
			wantCount:  1,
			wantObject: "idx_users_email",
		},
		{
			name:       "unnamed index reports the table",
			sql:        "CREATE INDEX ON reservations (user_id);",
			wantCount:  1,
			wantObject: "reservations",
		},
		{
			name:      "non-index statement ignored",
			sql:       "CREATE TABLE users (id INT);",
			wantCount: 0,
		},
	}

	rule := rules.NewCreateIndexRule()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			findings := checkLast(t, rule, tt.sql)
			assert.Len(t, findings, tt.wantCount)

			if tt.wantCount > 0 {
				assert.Equal(t, analyzer.Medium, findings[0].Severity)
				assert.Equal(t, tt.wantObject, findings[0].Object)
			}
		})
	}
}
