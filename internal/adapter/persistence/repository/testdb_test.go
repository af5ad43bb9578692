package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with a sqlite-friendly schema
// mirroring the production tables (the postgres column defaults do not
// translate, so the DDL is spelled out).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			phone TEXT,
			full_name TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE businesses (
			id TEXT PRIMARY KEY,
			owner_id TEXT,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			subcategory TEXT,
			zip_code TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE provider_profiles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			rating_average REAL NOT NULL DEFAULT 0,
			rating_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE subscriptions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			tier TEXT NOT NULL DEFAULT 'free',
			status TEXT NOT NULL DEFAULT 'active',
			expires_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE service_requests (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			category TEXT NOT NULL,
			subcategory TEXT,
			zip_code TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			attachments TEXT,
			selected_business_ids TEXT,
			preferred_schedule DATETIME,
			status TEXT NOT NULL DEFAULT 'REQUEST_CREATED',
			primary_provider_id TEXT,
			cancel_reason TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE leads (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			business_id TEXT NOT NULL,
			provider_user_id TEXT NOT NULL,
			category TEXT NOT NULL,
			zip_code TEXT,
			description TEXT,
			status TEXT NOT NULL,
			metadata TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE proposals (
			id TEXT PRIMARY KEY,
			service_request_id TEXT NOT NULL,
			provider_user_id TEXT NOT NULL,
			details TEXT,
			price REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'SENT',
			payment_intent_id TEXT,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			paid_at DATETIME,
			payout_amount REAL,
			platform_fee_amount REAL,
			payout_status TEXT NOT NULL DEFAULT '',
			payout_processed_at DATETIME,
			rejection_reason TEXT,
			rejection_note TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE work_orders (
			id TEXT PRIMARY KEY,
			service_request_id TEXT NOT NULL UNIQUE,
			provider_user_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'IN_PROGRESS',
			completed_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE reviews (
			id TEXT PRIMARY KEY,
			service_request_id TEXT,
			customer_id TEXT NOT NULL,
			provider_user_id TEXT NOT NULL,
			business_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			title TEXT,
			comment TEXT,
			metadata TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}
