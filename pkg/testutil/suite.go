package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shopstock/shopstock-backend/pkg/database"
	"github.com/shopstock/shopstock-backend/pkg/logger"
	"github.com/shopstock/shopstock-backend/pkg/store"
)

var (
	// Global test container (shared across all integration tests)
	globalContainer *PostgresContainer
	globalDB        *sqlx.DB
	containerOnce   sync.Once
	containerErr    error
)

// TestStore is a store created for one test. Its ID scopes every query
// the test runs, so tests sharing the database stay isolated.
type TestStore struct {
	ID   string
	Slug string
}

// Context returns a context carrying the store's scope
func (s *TestStore) Context(ctx context.Context) context.Context {
	return store.WithStoreContext(ctx, s.ID, s.Slug)
}

// IntegrationSuite provides a base for integration tests with real PostgreSQL
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Fixtures  *FixtureFactory
	Logger    *logger.Logger
}

// NewIntegrationSuite creates a new integration test suite.
// Call this in TestMain to set up shared test infrastructure.
//
// Usage:
//
//	var suite *testutil.IntegrationSuite
//
//	func TestMain(m *testing.M) {
//	    ctx := context.Background()
//
//	    suite, err := testutil.NewIntegrationSuite(ctx)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    code := m.Run()
//	    os.Exit(code)
//	}
//
//	func TestSomething(t *testing.T) {
//	    ctx := context.Background()
//	    st := suite.SetupStore(t, ctx)
//	    ctx = st.Context(ctx)
//	    // ... run tests with store context
//	}
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	container, db, err := getOrCreateContainer(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New("test", "test")
	wrappedDB, err := database.NewWithDSN(container.DSN, log)
	if err != nil {
		return nil, err
	}

	if err := container.Migrate(ctx, db); err != nil {
		return nil, err
	}

	return &IntegrationSuite{
		Container: container,
		RawDB:     db,
		DB:        wrappedDB,
		Fixtures:  NewFixtureFactory(db),
		Logger:    log,
	}, nil
}

// Cleanup closes the suite's connections. The shared container stays
// up for other packages in the same test run.
func (s *IntegrationSuite) Cleanup(ctx context.Context) {
	if s.DB != nil {
		s.DB.Close()
	}
}

// getOrCreateContainer returns the shared test container
func getOrCreateContainer(ctx context.Context) (*PostgresContainer, *sqlx.DB, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		globalDB, containerErr = globalContainer.Connect(ctx)
	})

	return globalContainer, globalDB, containerErr
}

// SetupStore creates a store for one test. Its rows are removed when
// the test finishes; store scoping keeps concurrent tests apart in the
// meantime.
func (s *IntegrationSuite) SetupStore(t *testing.T, ctx context.Context) *TestStore {
	t.Helper()

	ts := &TestStore{
		ID:   uuid.New().String(),
		Slug: fmt.Sprintf("test-%s", uuid.New().String()[:8]),
	}
	_, err := s.RawDB.ExecContext(ctx,
		`INSERT INTO stores (id, name, slug) VALUES ($1, $2, $3)`,
		ts.ID, "Test Store "+ts.Slug, ts.Slug,
	)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		if _, err := s.RawDB.Exec(`DELETE FROM products WHERE store_id = $1`, ts.ID); err != nil {
			t.Logf("warning: failed to clean up store %s products: %v", ts.ID, err)
		}
		if _, err := s.RawDB.Exec(`DELETE FROM stores WHERE id = $1`, ts.ID); err != nil {
			t.Logf("warning: failed to clean up store %s: %v", ts.ID, err)
		}
	})

	return ts
}
