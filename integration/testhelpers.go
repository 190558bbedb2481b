//go:build integration

// Package integration runs the provisioner against a real PostgreSQL 16
// container. Run with: go test -tags integration ./integration/...
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aqasim81/reservation-provisioner/internal/database"
)

const (
	postgresImage = "postgres:16-alpine"
	testDB        = "reservations_test"
	testUser      = "provision"
	testPassword  = "provision"
)

// SetupPostgresDSN starts a PostgreSQL 16 container and returns its
// connection string. The container is terminated when the test completes.
func SetupPostgresDSN(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       testDB,
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return "postgres://" + testUser + ":" + testPassword + "@" + host + ":" + port.Port() + "/" + testDB + "?sslmode=disable"
}

// SetupPostgres starts a container and returns an open handle to it.
func SetupPostgres(t *testing.T) *database.Postgres {
	t.Helper()

	ctx := context.Background()

	h, err := database.OpenPostgres(ctx, database.PostgresOptions{URL: SetupPostgresDSN(t)})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = h.Close(context.Background())
	})

	return h
}
