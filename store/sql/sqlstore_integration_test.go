package sqlstore_test

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/goliatone/go-leadrelay/core"
	relaymigrations "github.com/goliatone/go-leadrelay/migrations"
	sqlstore "github.com/goliatone/go-leadrelay/store/sql"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type testPersistenceConfig struct {
	driver string
	server string
}

func (c testPersistenceConfig) GetDebug() bool {
	return false
}

func (c testPersistenceConfig) GetDriver() string {
	return c.driver
}

func (c testPersistenceConfig) GetServer() string {
	return c.server
}

func (c testPersistenceConfig) GetPingTimeout() time.Duration {
	return time.Second
}

func (c testPersistenceConfig) GetOtelIdentifier() string {
	return "go-leadrelay-tests"
}

func TestMigrationSmokeApplySQLite(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	var tableName string
	if err := client.DB().NewRaw(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
		"relay_activity_entries",
	).Scan(context.Background(), &tableName); err != nil {
		t.Fatalf("query sqlite master: %v", err)
	}
	if tableName != "relay_activity_entries" {
		t.Fatalf("expected relay_activity_entries table, got %q", tableName)
	}
}

func TestActivityStore_RecordAndList(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.ActivityStore()
	if store == nil {
		t.Fatalf("expected activity store from factory")
	}

	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	entries := []core.RelayActivityEntry{
		{
			SheetName:  "Form Responses 1",
			Endpoint:   "https://hooks.example.com/leads",
			Email:      "ada@example.com",
			Status:     core.RelayActivityStatusSuccess,
			StatusCode: 200,
			Detail:     "OK",
			CreatedAt:  base,
		},
		{
			SheetName:  "Form Responses 1",
			Endpoint:   "https://hooks.example.com/leads",
			Email:      "grace@example.com",
			Status:     core.RelayActivityStatusFailure,
			StatusCode: 500,
			Detail:     "Internal Error",
			CreatedAt:  base.Add(time.Minute),
		},
		{
			SheetName: "leads",
			Status:    core.RelayActivityStatusSkipped,
			Detail:    "missing_email",
			CreatedAt: base.Add(2 * time.Minute),
		},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("record entry: %v", err)
		}
	}

	page, err := store.List(ctx, core.RelayActivityFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 3 {
		t.Fatalf("expected 3 entries, got total=%d items=%d", page.Total, len(page.Items))
	}
	if page.Items[0].Status != core.RelayActivityStatusSkipped {
		t.Fatalf("expected newest entry first, got %#v", page.Items[0])
	}

	page, err = store.List(ctx, core.RelayActivityFilter{SheetName: "Form Responses 1"})
	if err != nil {
		t.Fatalf("list by sheet: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 sheet entries, got %d", page.Total)
	}

	page, err = store.List(ctx, core.RelayActivityFilter{Status: core.RelayActivityStatusFailure})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if page.Total != 1 || page.Items[0].Email != "grace@example.com" {
		t.Fatalf("unexpected failure page: %#v", page)
	}
	if page.Items[0].StatusCode != 500 || page.Items[0].Detail != "Internal Error" {
		t.Fatalf("unexpected failure entry: %#v", page.Items[0])
	}
}

func TestActivityStore_DefaultsAndPagination(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.ActivityStore()

	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.Record(ctx, core.RelayActivityEntry{
			SheetName: "leads",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("record entry %d: %v", i, err)
		}
	}

	page, err := store.List(ctx, core.RelayActivityFilter{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(page.Items) != 2 || !page.HasNext {
		t.Fatalf("expected a full first page with more, got %#v", page)
	}
	// A blank status defaults to skipped, and an omitted ID is generated.
	if page.Items[0].Status != core.RelayActivityStatusSkipped {
		t.Fatalf("expected default skipped status, got %q", page.Items[0].Status)
	}
	if page.Items[0].ID == "" {
		t.Fatalf("expected generated id")
	}

	page, err = store.List(ctx, core.RelayActivityFilter{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(page.Items) != 1 || page.HasNext {
		t.Fatalf("expected final page, got %#v", page)
	}
}

func newSQLiteClient(t *testing.T) (*persistence.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:leadrelay-test-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := testPersistenceConfig{
		driver: "sqlite3",
		server: dsn,
	}
	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		t.Fatalf("new persistence client: %v", err)
	}

	ctx := context.Background()
	_, err = relaymigrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != relaymigrations.DialectSQLite {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, relaymigrations.WithValidationTargets(relaymigrations.DialectSQLite))
	if err != nil {
		_ = client.Close()
		t.Fatalf("register migrations: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		t.Fatalf("migrate: %v", err)
	}

	return client, func() {
		_ = client.Close()
	}
}
