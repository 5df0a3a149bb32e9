// Package testhelper runs repository tests against a real PostgreSQL in a
// container. Every test gets its own database cloned from a migrated
// template, so tests may run in parallel without seeing each other's rows.
package testhelper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/flashquiz/internal/adapter/postgres"
)

const (
	image        = "postgres:17-alpine"
	user         = "flashquiz"
	password     = "flashquiz"
	adminDB      = "postgres"
	templateDB   = "flashquiz_template"
	startTimeout = 2 * time.Minute
)

var (
	once    sync.Once
	server  *url.URL
	initErr error

	// CREATE DATABASE ... TEMPLATE fails while another clone of the same
	// template is in progress.
	cloneMu sync.Mutex
)

// SetupTestDB returns a pool connected to a fresh, fully migrated database.
// The database is dropped when the test ends; the container is shared by
// the whole test binary. Skipped under -short.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test: skipped in -short mode")
	}

	once.Do(func() {
		server, initErr = startServer()
	})
	if initErr != nil {
		t.Fatalf("testhelper: start postgres: %v", initErr)
	}

	name := "t_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := clone(name); err != nil {
		t.Fatalf("testhelper: create database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn(name))
	if err != nil {
		t.Fatalf("testhelper: connect: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := drop(name); err != nil {
			t.Logf("testhelper: drop %s: %v", name, err)
		}
	})
	return pool
}

func dsn(database string) string {
	u := *server
	u.Path = "/" + database
	return u.String()
}

func startServer() (*url.URL, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       templateDB,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("mapped port: %w", err)
	}

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port.Port(),
		RawQuery: "sslmode=disable",
	}
	server = u

	m, err := postgres.NewMigrator(dsn(templateDB))
	if err != nil {
		return nil, err
	}
	defer m.Close() //nolint:errcheck

	if _, err := m.Up(ctx); err != nil {
		return nil, fmt.Errorf("migrate template: %w", err)
	}
	return u, nil
}

// admin runs one statement on the maintenance database. CREATE and DROP
// DATABASE cannot run inside a transaction, so a plain connection is used.
func admin(sql string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dsn(adminDB))
	if err != nil {
		return err
	}
	defer conn.Close(ctx) //nolint:errcheck

	_, err = conn.Exec(ctx, sql)
	return err
}

func clone(name string) error {
	cloneMu.Lock()
	defer cloneMu.Unlock()
	return admin(fmt.Sprintf("CREATE DATABASE %s TEMPLATE %s", pgx.Identifier{name}.Sanitize(), templateDB))
}

func drop(name string) error {
	return admin(fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", pgx.Identifier{name}.Sanitize()))
}
