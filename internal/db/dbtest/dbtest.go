// Package dbtest starts a throwaway Postgres for repository integration tests.
// Tests are skipped unless TEST_INTEGRATION is set.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"family-album-go/internal/config"
	"family-album-go/internal/db"
	"family-album-go/pkg/logger"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const (
	image    = "docker.io/postgres:17-alpine"
	name     = "family_album_test"
	user     = "album"
	password = "test-password"
)

// Open returns a migrated database. The container is terminated when the test
// ends.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION is not set")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase(name),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	cfg := config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     user,
		Password: password,
		Name:     name,
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	log := logger.Nop()
	if err := db.Migrate(cfg, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	gormDB, err := db.NewPostgres(cfg, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}
