package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pageza/recipe-genius/backend/config"
)

// SetupPostgres starts a disposable PostgreSQL container and returns a config
// pointing the postgres storage backend at it. The test is skipped in -short mode
// or when no container runtime is available.
func SetupPostgres(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithDeadline(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Error cleaning up test database: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return &config.Config{
		StorageBackend: config.StoragePostgres,
		StorageKey:     config.DefaultStorageKey,
		DBHost:         host,
		DBPort:         port.Port(),
		DBUser:         "test",
		DBPassword:     "test",
		DBName:         "test",
		DBSSLMode:      "disable",
	}
}
