package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Ids are caller-visible uuid strings,
// "since" timestamps are opaque integers compared numerically.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    rz_username          TEXT PRIMARY KEY,
    full_name            TEXT NOT NULL,
    organisation_unit    TEXT NOT NULL,
    has_admin_privileges INTEGER NOT NULL DEFAULT 0,
    password_hash        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS devices (
    device_id         TEXT PRIMARY KEY,
    title             TEXT NOT NULL,
    device_type       TEXT NOT NULL,
    description       TEXT,
    accessories       TEXT,
    rz_username_buyer TEXT NOT NULL,
    serial_number     TEXT NOT NULL,
    image_url         TEXT NOT NULL DEFAULT '',
    image             BLOB,
    image_mime        TEXT
);

CREATE TABLE IF NOT EXISTS owner_transactions (
    owner_transaction_id  TEXT PRIMARY KEY,
    rz_username           TEXT NOT NULL,
    timestamp_owner_since INTEGER NOT NULL,
    device_id             TEXT NOT NULL REFERENCES devices(device_id)
);

CREATE INDEX IF NOT EXISTS idx_owner_transactions_device
    ON owner_transactions(device_id);

CREATE TABLE IF NOT EXISTS location_transactions (
    location_transaction_id TEXT PRIMARY KEY,
    room_code               TEXT NOT NULL,
    timestamp_located_since INTEGER NOT NULL,
    device_id               TEXT NOT NULL REFERENCES devices(device_id)
);

CREATE INDEX IF NOT EXISTS idx_location_transactions_device
    ON location_transactions(device_id);

CREATE TABLE IF NOT EXISTS purchasing_information (
    purchasing_information_id TEXT PRIMARY KEY,
    price                     TEXT NOT NULL,
    timestamp_warranty_end    INTEGER NOT NULL,
    timestamp_purchase        INTEGER NOT NULL,
    seller                    TEXT NOT NULL,
    cost_centre               TEXT,
    device_id                 TEXT NOT NULL REFERENCES devices(device_id)
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
