// initdb creates the postgres schema for the fulfillment agent and can seed a
// handful of demo orders. It is meant for local development and CI, where a
// migration toolchain would be overkill.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/config"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/db"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository/postgresql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
        id                   TEXT PRIMARY KEY,
        customer_name        TEXT NOT NULL,
        customer_email       TEXT NOT NULL,
        customer_phone       TEXT NOT NULL DEFAULT '',
        delivery_address     TEXT NOT NULL DEFAULT '',
        requested_date       DATE NOT NULL,
        time_preference      TEXT NOT NULL DEFAULT 'any',
        status               TEXT NOT NULL DEFAULT 'placed',
        total_amount         DOUBLE PRECISION NOT NULL DEFAULT 0,
        special_instructions TEXT NOT NULL DEFAULT '',
        claimed_by           TEXT,
        claimed_at           TIMESTAMPTZ,
        created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,

	// The pending scan walks this index instead of the whole table.
	`CREATE INDEX IF NOT EXISTS orders_pending_idx
        ON orders (created_at)
        WHERE status IN ('placed', 'confirmed')`,

	`CREATE TABLE IF NOT EXISTS order_items (
        order_id   TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
        name       TEXT NOT NULL,
        quantity   INTEGER NOT NULL,
        unit_price DOUBLE PRECISION NOT NULL
    )`,

	`CREATE INDEX IF NOT EXISTS order_items_order_idx ON order_items (order_id)`,

	`CREATE TABLE IF NOT EXISTS appointments (
        id          TEXT PRIMARY KEY,
        order_id    TEXT NOT NULL REFERENCES orders (id),
        label       TEXT NOT NULL DEFAULT '',
        location    TEXT NOT NULL DEFAULT '',
        description TEXT NOT NULL DEFAULT '',
        starts_at   TIMESTAMPTZ NOT NULL,
        ends_at     TIMESTAMPTZ NOT NULL,
        status      TEXT NOT NULL DEFAULT 'booked',
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,

	// One live appointment per order. The appointment repo's upsert relies on
	// exactly this partial index as its conflict target.
	`CREATE UNIQUE INDEX IF NOT EXISTS appointments_active_order_idx
        ON appointments (order_id)
        WHERE status <> 'cancelled'`,

	`CREATE INDEX IF NOT EXISTS appointments_window_idx
        ON appointments (starts_at)
        WHERE status <> 'cancelled'`,

	`CREATE TABLE IF NOT EXISTS notifications (
        token       TEXT PRIMARY KEY,
        dedupe_key  TEXT NOT NULL UNIQUE,
        order_id    TEXT NOT NULL,
        recipient   TEXT NOT NULL,
        subject     TEXT NOT NULL DEFAULT '',
        body        TEXT NOT NULL DEFAULT '',
        state       TEXT NOT NULL DEFAULT 'pending',
        accepted_at TIMESTAMPTZ,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
}

var dropStatements = []string{
	`DROP TABLE IF EXISTS notifications`,
	`DROP TABLE IF EXISTS appointments`,
	`DROP TABLE IF EXISTS order_items`,
	`DROP TABLE IF EXISTS orders`,
}

func main() {
	drop := flag.Bool("drop", false, "drop existing tables before creating the schema")
	seed := flag.Bool("seed", false, "insert demo orders after creating the schema")
	hash := flag.String("hash", "", "print a bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hash != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(*hash), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Hash error: %v", err)
		}
		fmt.Println(string(h))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	database, err := db.NewDb(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Database init error: %v", err)
	}
	defer database.Close()

	if *drop {
		log.Println("Dropping existing tables...")
		for _, stmt := range dropStatements {
			if _, err := database.Exec(ctx, stmt); err != nil {
				log.Fatalf("Drop failed: %v", err)
			}
		}
	}

	log.Println("Creating schema...")
	for _, stmt := range schema {
		if _, err := database.Exec(ctx, stmt); err != nil {
			log.Fatalf("Schema statement failed: %v\n%s", err, stmt)
		}
	}
	fmt.Println("Schema ready.")

	if *seed {
		if err := seedOrders(ctx, database); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
	}
}

// seedOrders inserts three demo orders spanning the time preferences. Orders
// that already exist are skipped, so reseeding is harmless.
func seedOrders(ctx context.Context, database *db.Database) error {
	orders := postgresql.NewOrderRepo(database, 0)

	demo := []*repository.Order{
		{
			ID:                  "ORD12345",
			CustomerName:        "John Doe",
			CustomerEmail:       "john.doe@example.com",
			CustomerPhone:       "+1-555-0123",
			DeliveryAddress:     "123 Main St, Anytown, CA 12345, USA",
			RequestedDate:       date(2025, time.September, 10),
			TimePreference:      repository.PreferenceMorning,
			TotalAmount:         63.50,
			SpecialInstructions: "Please ring doorbell twice",
			Items: []repository.OrderItem{
				{Name: "Chocolate Chip", Quantity: 12, UnitPrice: 2.50},
				{Name: "Oatmeal Raisin", Quantity: 6, UnitPrice: 2.75},
				{Name: "Snickerdoodle", Quantity: 12, UnitPrice: 2.60},
			},
		},
		{
			ID:                  "ORD12346",
			CustomerName:        "Jane Smith",
			CustomerEmail:       "jane.smith@example.com",
			CustomerPhone:       "+1-555-0124",
			DeliveryAddress:     "456 Oak Ave, Springfield, CA 67890, USA",
			RequestedDate:       date(2025, time.September, 11),
			TimePreference:      repository.PreferenceAfternoon,
			TotalAmount:         99.00,
			SpecialInstructions: "Leave at front door",
			Items: []repository.OrderItem{
				{Name: "Double Chocolate", Quantity: 24, UnitPrice: 3.00},
				{Name: "Sugar Cookie", Quantity: 12, UnitPrice: 2.25},
			},
		},
		{
			ID:                  "ORD12347",
			CustomerName:        "Bob Wilson",
			CustomerEmail:       "bob.wilson@example.com",
			CustomerPhone:       "+1-555-0125",
			DeliveryAddress:     "789 Pine Ln, Riverside, CA 54321, USA",
			RequestedDate:       date(2025, time.September, 12),
			TimePreference:      repository.PreferenceEvening,
			TotalAmount:         50.40,
			SpecialInstructions: "Call upon arrival",
			Items: []repository.OrderItem{
				{Name: "Peanut Butter", Quantity: 18, UnitPrice: 2.80},
			},
		},
	}

	for _, order := range demo {
		if _, err := orders.GetByID(ctx, order.ID); err == nil {
			fmt.Printf("Order %s already exists, skipping.\n", order.ID)
			continue
		}
		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		fmt.Printf("Seeded order %s for %s.\n", order.ID, order.CustomerName)
	}
	return nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
