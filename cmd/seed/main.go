// Package main provides a CLI tool that creates the database schema and
// seeds it with an admin user and optional demo data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"rentware/internal/core/id"
	"rentware/internal/infrastructure/storage/postgres"
	"rentware/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("RENTWARE_POSTGRES_DSN")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := ensureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema is up to date")

	adminUserID, err := seedAdminUser(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log, adminUserID); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// schemaStatements are executed in order; every statement is idempotent so
// the seeder can run against an existing database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cat_warehouses (
		id          UUID PRIMARY KEY,
		code        TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		location    TEXT,
		description TEXT,
		version     INT NOT NULL DEFAULT 1,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS cat_customers (
		id           UUID PRIMARY KEY,
		code         TEXT NOT NULL UNIQUE,
		name         TEXT NOT NULL,
		active       BOOLEAN NOT NULL DEFAULT TRUE,
		last_name    TEXT,
		company_name TEXT,
		email        TEXT,
		phone        TEXT,
		address      TEXT,
		notes        TEXT,
		version      INT NOT NULL DEFAULT 1,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS cat_products (
		id                UUID PRIMARY KEY,
		code              TEXT NOT NULL UNIQUE,
		name              TEXT NOT NULL,
		active            BOOLEAN NOT NULL DEFAULT TRUE,
		category          TEXT,
		description       TEXT,
		unit              TEXT NOT NULL DEFAULT 'pc',
		dishware_type     TEXT NOT NULL,
		material          TEXT NOT NULL,
		color             TEXT,
		condition         TEXT NOT NULL DEFAULT 'excellent'
		                  CHECK (condition IN ('excellent', 'good', 'worn', 'damaged')),
		is_set            BOOLEAN NOT NULL DEFAULT FALSE,
		pieces_per_set    INT,
		owned_qty         BIGINT NOT NULL DEFAULT 0,
		rented_qty        BIGINT NOT NULL DEFAULT 0,
		available_qty     BIGINT NOT NULL DEFAULT 0,
		reorder_threshold BIGINT NOT NULL DEFAULT 0,
		warehouse_id      UUID NOT NULL REFERENCES cat_warehouses (id),
		version           INT NOT NULL DEFAULT 1,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cat_products_warehouse ON cat_products (warehouse_id)`,

	`CREATE TABLE IF NOT EXISTS cat_events (
		id          UUID PRIMARY KEY,
		code        TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		customer_id UUID NOT NULL REFERENCES cat_customers (id),
		event_date  TIMESTAMPTZ NOT NULL,
		event_time  TEXT,
		venue       TEXT,
		notes       TEXT,
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK (status IN ('pending', 'confirmed', 'done', 'cancelled')),
		version     INT NOT NULL DEFAULT 1,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cat_events_customer ON cat_events (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cat_events_date ON cat_events (event_date)`,

	`CREATE TABLE IF NOT EXISTS stock_movements (
		id                  UUID PRIMARY KEY,
		product_id          UUID NOT NULL REFERENCES cat_products (id),
		occurred_at         TIMESTAMPTZ NOT NULL,
		kind                TEXT NOT NULL
		                    CHECK (kind IN ('inflow', 'outflow', 'adjust_up', 'adjust_down', 'rental_out', 'rental_return')),
		quantity            BIGINT NOT NULL CHECK (quantity > 0),
		origin_warehouse_id UUID REFERENCES cat_warehouses (id),
		dest_warehouse_id   UUID REFERENCES cat_warehouses (id),
		reference           TEXT NOT NULL DEFAULT '',
		notes               TEXT,
		actor_id            UUID,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements (product_id, occurred_at)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_reference ON stock_movements (reference)`,

	`CREATE TABLE IF NOT EXISTS rental_orders (
		id           UUID PRIMARY KEY,
		code         TEXT NOT NULL UNIQUE,
		customer_id  UUID NOT NULL REFERENCES cat_customers (id),
		event_id     UUID REFERENCES cat_events (id),
		period_start TIMESTAMPTZ NOT NULL,
		period_end   TIMESTAMPTZ NOT NULL,
		state        TEXT NOT NULL DEFAULT 'draft'
		             CHECK (state IN ('draft', 'confirmed', 'finished')),
		notes        TEXT,
		version      INT NOT NULL DEFAULT 1,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rental_orders_customer ON rental_orders (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rental_orders_state ON rental_orders (state)`,

	`CREATE TABLE IF NOT EXISTS rental_order_items (
		id         UUID PRIMARY KEY,
		order_id   UUID NOT NULL REFERENCES rental_orders (id) ON DELETE CASCADE,
		line_no    INT NOT NULL,
		product_id UUID NOT NULL REFERENCES cat_products (id),
		quantity   BIGINT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12, 2),
		notes      TEXT,
		UNIQUE (order_id, line_no)
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id                    UUID PRIMARY KEY,
		email                 TEXT NOT NULL,
		password_hash         TEXT NOT NULL,
		full_name             TEXT NOT NULL DEFAULT '',
		role                  TEXT NOT NULL DEFAULT 'staff'
		                      CHECK (role IN ('admin', 'staff')),
		is_active             BOOLEAN NOT NULL DEFAULT TRUE,
		last_login_at         TIMESTAMPTZ,
		failed_login_attempts INT NOT NULL DEFAULT 0,
		locked_until          TIMESTAMPTZ,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
		version               INT NOT NULL DEFAULT 1
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email))`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id             UUID PRIMARY KEY,
		user_id        UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		token_hash     TEXT NOT NULL UNIQUE,
		expires_at     TIMESTAMPTZ NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		revoked_at     TIMESTAMPTZ,
		revoked_reason TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens (user_id)`,

	`CREATE TABLE IF NOT EXISTS sys_sequences (
		key         TEXT PRIMARY KEY,
		current_val BIGINT NOT NULL DEFAULT 0
	)`,
}

func ensureSchema(ctx context.Context, pool *postgres.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@rentware.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE LOWER(email) = LOWER($1)`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, role, is_active, version)
		VALUES ($1, $2, $3, 'System Admin', 'admin', true, 1)
	`, userID, adminEmail, string(passwordHash))
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", userID)
	return userID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger, adminUserID id.ID) error {
	log.Info("seeding demo data...")

	// 1. Warehouses. Products below reference them, so capture IDs and
	// resolve existing rows on conflict.
	warehouses := []struct {
		code     string
		name     string
		location string
	}{
		{"WH-001", "Main Warehouse", "12 Dockside Rd, Unit 4"},
		{"WH-002", "Event Prep Room", "Same building, ground floor"},
	}

	warehouseIDs := make(map[string]id.ID)
	for _, w := range warehouses {
		whID := id.New()
		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_warehouses (id, code, name, location, active, version)
			VALUES ($1, $2, $3, $4, true, 1)
			ON CONFLICT (code) DO NOTHING
		`, whID, w.code, w.name, w.location)
		if err != nil {
			log.Warnw("failed to seed warehouse", "code", w.code, "error", err)
			continue
		}
		if tag.RowsAffected() == 0 {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM cat_warehouses WHERE code = $1`, w.code,
			).Scan(&whID); err != nil {
				log.Warnw("failed to fetch existing warehouse", "code", w.code, "error", err)
				continue
			}
		}
		warehouseIDs[w.code] = whID
	}

	mainWH, ok := warehouseIDs["WH-001"]
	if !ok {
		return fmt.Errorf("main warehouse unavailable, cannot seed products")
	}

	// 2. Products. Initial stock goes through the movement ledger so that
	// replaying history matches the live counters.
	products := []productSeed{
		{"PRD-001", "Dinner Plate 27cm White", "plates", "plate", "porcelain", false, 0, 400, 50},
		{"PRD-002", "Salad Plate 21cm White", "plates", "plate", "porcelain", false, 0, 300, 40},
		{"PRD-003", "Red Wine Glass 450ml", "glassware", "glass", "crystal", false, 0, 250, 30},
		{"PRD-004", "Champagne Flute 180ml", "glassware", "glass", "crystal", false, 0, 200, 30},
		{"PRD-005", "Cutlery Set 5pc Silver", "cutlery", "cutlery", "stainless steel", true, 5, 150, 20},
		{"PRD-006", "Espresso Cup and Saucer", "cups", "cup", "porcelain", true, 2, 120, 15},
	}

	var actorID *id.ID
	if !id.IsNil(adminUserID) {
		actorID = &adminUserID
	}

	// Product row and its initial inflow commit together; counters that
	// disagree with the ledger would show up as drift on the consistency
	// endpoint, so a partial insert fails the whole seed.
	for _, p := range products {
		if err := seedProduct(ctx, pool, p, mainWH, actorID); err != nil {
			return fmt.Errorf("seed product %s: %w", p.code, err)
		}
	}

	// 3. Customers.
	customers := []struct {
		code    string
		name    string
		company *string
		email   string
	}{
		{"CUS-001", "Marta", strPtr("Riverside Catering Ltd"), "orders@riverside-catering.example"},
		{"CUS-002", "Jonas", nil, "jonas.weber@example.com"},
		{"CUS-003", "Elena", strPtr("Grand Hall Events"), "bookings@grandhall.example"},
	}

	customerIDs := make(map[string]id.ID)
	for _, c := range customers {
		custID := id.New()
		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_customers (id, code, name, company_name, email, active, version)
			VALUES ($1, $2, $3, $4, $5, true, 1)
			ON CONFLICT (code) DO NOTHING
		`, custID, c.code, c.name, c.company, c.email)
		if err != nil {
			log.Warnw("failed to seed customer", "code", c.code, "error", err)
			continue
		}
		if tag.RowsAffected() == 0 {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM cat_customers WHERE code = $1`, c.code,
			).Scan(&custID); err != nil {
				log.Warnw("failed to fetch existing customer", "code", c.code, "error", err)
				continue
			}
		}
		customerIDs[c.code] = custID
	}

	// 4. One upcoming event for the dashboard agenda.
	if custID, ok := customerIDs["CUS-001"]; ok {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_events (id, code, name, customer_id, event_date, venue, status, active, version)
			VALUES ($1, 'EVT-001', 'Summer Garden Wedding', $2, $3, 'Riverside Pavilion', 'confirmed', true, 1)
			ON CONFLICT (code) DO NOTHING
		`, id.New(), custID, time.Now().AddDate(0, 0, 14))
		if err != nil {
			log.Warnw("failed to seed event", "error", err)
		}
	}

	log.Info("demo data seeded")
	return nil
}

type productSeed struct {
	code         string
	name         string
	category     string
	dishwareType string
	material     string
	isSet        bool
	pieces       int
	qty          int64
	threshold    int64
}

// seedProduct inserts a product together with the inflow movement backing
// its initial counters, in one transaction. An existing code is a no-op.
func seedProduct(ctx context.Context, pool *postgres.Pool, p productSeed, warehouseID id.ID, actorID *id.ID) error {
	tx, err := pool.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	prodID := id.New()
	var pieces *int
	if p.isSet {
		pieces = &p.pieces
	}
	tag, err := tx.Exec(ctx, `
		INSERT INTO cat_products (
			id, code, name, category, dishware_type, material,
			is_set, pieces_per_set, owned_qty, rented_qty, available_qty,
			reorder_threshold, warehouse_id, active, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $9, $10, $11, true, 1)
		ON CONFLICT (code) DO NOTHING
	`, prodID, p.code, p.name, p.category, p.dishwareType, p.material,
		p.isSet, pieces, p.qty, p.threshold, warehouseID)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (
			id, product_id, occurred_at, kind, quantity,
			dest_warehouse_id, reference, actor_id
		)
		VALUES ($1, $2, now(), 'inflow', $3, $4, 'seed:initial-stock', $5)
	`, id.New(), prodID, p.qty, warehouseID, actorID)
	if err != nil {
		return fmt.Errorf("record initial inflow: %w", err)
	}

	return tx.Commit(ctx)
}

func strPtr(s string) *string { return &s }
