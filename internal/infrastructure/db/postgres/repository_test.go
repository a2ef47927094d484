package postgres

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Dry-run harness
// ---------------------------------------------------------------------------

type capturedStmt struct {
	sql  string
	vars []any
}

// newDryRunDB returns a handle that builds SQL without a server and records
// every statement it would have sent.
func newDryRunDB(t *testing.T) (*gorm.DB, *[]capturedStmt) {
	t.Helper()

	cfg := gormConfig(zerolog.Nop())
	cfg.DryRun = true
	cfg.DisableAutomaticPing = true
	cfg.SkipDefaultTransaction = true

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=orders dbname=orders sslmode=disable"}), cfg)
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	var stmts []capturedStmt
	capture := func(tx *gorm.DB) {
		stmts = append(stmts, capturedStmt{sql: tx.Statement.SQL.String(), vars: slices.Clone(tx.Statement.Vars)})
	}
	cb := db.Callback()
	for name, err := range map[string]error{
		"query":  cb.Query().After("gorm:query").Register("test:capture_query", capture),
		"create": cb.Create().After("gorm:create").Register("test:capture_create", capture),
		"update": cb.Update().After("gorm:update").Register("test:capture_update", capture),
		"delete": cb.Delete().After("gorm:delete").Register("test:capture_delete", capture),
	} {
		if err != nil {
			t.Fatalf("register %s capture: %v", name, err)
		}
	}
	return db, &stmts
}

var userPredicate = regexp.MustCompile(`user_id = \$\d+`)

// assertOwnerScoped fails unless every captured statement filters on user_id
// and binds userID.
func assertOwnerScoped(t *testing.T, stmts []capturedStmt, userID int64) {
	t.Helper()
	if len(stmts) == 0 {
		t.Fatal("no statements captured")
	}
	for _, st := range stmts {
		if !userPredicate.MatchString(st.sql) {
			t.Fatalf("statement lacks a user_id predicate: %s", st.sql)
		}
		if !slices.Contains(st.vars, any(userID)) {
			t.Fatalf("statement does not bind user %d: %s %v", userID, st.sql, st.vars)
		}
	}
}

// ---------------------------------------------------------------------------
// OrderRepository
// ---------------------------------------------------------------------------

const owner int64 = 42

func TestOrderRepository_EveryStatementIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	status := domain.OrderCompleted

	cases := map[string]func(ports.OrderRepository) error{
		"list": func(r ports.OrderRepository) error {
			_, _, err := r.List(ctx, ports.ListOrdersFilter{UserID: owner, Limit: 10, Offset: 20})
			return err
		},
		"list by status": func(r ports.OrderRepository) error {
			_, _, err := r.List(ctx, ports.ListOrdersFilter{UserID: owner, Status: domain.OrderPending, Limit: 5})
			return err
		},
		"find": func(r ports.OrderRepository) error {
			_, err := r.FindByID(ctx, 7, owner)
			return err
		},
		"update": func(r ports.OrderRepository) error {
			_, err := r.Update(ctx, 7, owner, domain.OrderChanges{Status: &status})
			return err
		},
		"delete": func(r ports.OrderRepository) error {
			_, err := r.Delete(ctx, 7, owner)
			return err
		},
	}
	for name, run := range cases {
		t.Run(name, func(t *testing.T) {
			db, stmts := newDryRunDB(t)
			if err := run(NewOrderRepository(db)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertOwnerScoped(t, *stmts, owner)
		})
	}
}

func TestOrderRepository_ListCountsThenPages(t *testing.T) {
	db, stmts := newDryRunDB(t)

	if _, _, err := NewOrderRepository(db).List(context.Background(), ports.ListOrdersFilter{
		UserID: owner, Status: domain.OrderPending, Limit: 10, Offset: 20,
	}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(*stmts) != 2 {
		t.Fatalf("expected count and page statements, got %d", len(*stmts))
	}
	count, page := (*stmts)[0].sql, (*stmts)[1].sql
	if !regexp.MustCompile(`(?i)^SELECT count\(\*\) FROM "orders"`).MatchString(count) {
		t.Fatalf("unexpected count statement: %s", count)
	}
	for _, want := range []string{
		`orders.status = $`,
		`JOIN users ON users.id = orders.user_id`,
		`ORDER BY orders.created_at DESC, orders.id DESC`,
		`LIMIT `,
		`OFFSET `,
	} {
		if !regexp.MustCompile(regexp.QuoteMeta(want)).MatchString(page) {
			t.Fatalf("page statement missing %q: %s", want, page)
		}
	}
}

func TestOrderRepository_UpdateTouchesOnlyAllowListedColumns(t *testing.T) {
	db, stmts := newDryRunDB(t)
	desc := "three reams"

	if _, err := NewOrderRepository(db).Update(context.Background(), 7, owner, domain.OrderChanges{Description: &desc}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	sql := (*stmts)[0].sql
	for _, col := range []string{`"status"`, `"total"`, `"user_id"=`} {
		if regexp.MustCompile(regexp.QuoteMeta(col)).MatchString(sql) {
			t.Fatalf("update must not set %s: %s", col, sql)
		}
	}
	if !regexp.MustCompile(`"description"=\$\d+`).MatchString(sql) {
		t.Fatalf("update must set description: %s", sql)
	}
}

func TestOrderRepository_NoAffectedRowsMeansNotFound(t *testing.T) {
	db, _ := newDryRunDB(t)
	repo := NewOrderRepository(db)
	total := 1.5

	// A dry run affects no rows, the same as an id owned by someone else.
	updated, err := repo.Update(context.Background(), 7, owner, domain.OrderChanges{Total: &total})
	if err != nil || updated {
		t.Fatalf("expected (false, nil) from Update, got (%v, %v)", updated, err)
	}
	deleted, err := repo.Delete(context.Background(), 7, owner)
	if err != nil || deleted {
		t.Fatalf("expected (false, nil) from Delete, got (%v, %v)", deleted, err)
	}
}

// ---------------------------------------------------------------------------
// UserRepository
// ---------------------------------------------------------------------------

// failInsert makes the next insert fail with err before any SQL is built.
func failInsert(t *testing.T, db *gorm.DB, err error) {
	t.Helper()
	if regErr := db.Callback().Create().Before("gorm:create").Register("test:fail_insert", func(tx *gorm.DB) {
		_ = tx.AddError(err)
	}); regErr != nil {
		t.Fatalf("register failing insert: %v", regErr)
	}
}

func newTestUser() *domain.User {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "$2a$10$x", CreatedAt: now, UpdatedAt: now}
}

func TestUserRepository_Create_UniqueViolationIsDuplicateEmail(t *testing.T) {
	db, _ := newDryRunDB(t)
	failInsert(t, db, &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})

	_, err := NewUserRepository(db).Create(context.Background(), newTestUser())
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_Create_OtherErrorsAreWrapped(t *testing.T) {
	db, _ := newDryRunDB(t)
	failInsert(t, db, &pgconn.PgError{Code: "08006", Message: "connection failure"})

	_, err := NewUserRepository(db).Create(context.Background(), newTestUser())
	if err == nil || errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected a wrapped driver error, got %v", err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "08006" {
		t.Fatalf("driver error must stay inspectable, got %v", err)
	}
}

func TestUserRepository_Create_StoresHashInPasswordColumn(t *testing.T) {
	db, stmts := newDryRunDB(t)

	if _, err := NewUserRepository(db).Create(context.Background(), newTestUser()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	sql := (*stmts)[0].sql
	if !regexp.MustCompile(`^INSERT INTO "users" \("name","email","password","created_at","updated_at"\)`).MatchString(sql) {
		t.Fatalf("unexpected insert: %s", sql)
	}
	if !slices.Contains((*stmts)[0].vars, any("$2a$10$x")) {
		t.Fatalf("hash not bound: %v", (*stmts)[0].vars)
	}
}
