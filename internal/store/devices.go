package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lukasmw/devreg/internal/model"
)

// CreateDevice creates a new device. A device id is generated if the caller
// did not supply one. Returns ErrConflict if the id is already taken.
func CreateDevice(ctx context.Context, db DBTX, d model.Device) (*model.Device, error) {
	if d.DeviceID == "" {
		d.DeviceID = uuid.NewString()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO devices (device_id, title, device_type, description, accessories, rz_username_buyer, serial_number, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.DeviceID, d.Title, d.DeviceType, nullable(d.Description), nullable(d.Accessories),
		d.RZUsernameBuyer, d.SerialNumber, d.ImageURL,
	)
	if isConstraintErr(err) {
		return nil, fmt.Errorf("creating device %q: %w", d.DeviceID, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating device: %w", err)
	}

	return GetDevice(ctx, db, d.DeviceID)
}

// GetDevice returns a device by id.
func GetDevice(ctx context.Context, db DBTX, id string) (*model.Device, error) {
	d := &model.Device{}
	var description, accessories, imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT device_id, title, device_type, description, accessories, rz_username_buyer, serial_number, image_url, image_mime
		 FROM devices WHERE device_id = ?`, id,
	).Scan(&d.DeviceID, &d.Title, &d.DeviceType, &description, &accessories,
		&d.RZUsernameBuyer, &d.SerialNumber, &d.ImageURL, &imageMime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("device %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting device: %w", err)
	}
	d.Description = description.String
	d.Accessories = accessories.String
	d.ImageMime = imageMime.String
	return d, nil
}

// ListDevices returns devices with offset/limit pagination, ordered by id.
// A limit of 0 applies the default page size, a negative limit disables it.
func ListDevices(ctx context.Context, db DBTX, skip, limit int) ([]model.Device, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT device_id, title, device_type, description, accessories, rz_username_buyer, serial_number, image_url, image_mime
		 FROM devices ORDER BY device_id LIMIT ? OFFSET ?`,
		normalizeLimit(limit), skip,
	)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	for rows.Next() {
		var d model.Device
		var description, accessories, imageMime sql.NullString
		if err := rows.Scan(&d.DeviceID, &d.Title, &d.DeviceType, &description, &accessories,
			&d.RZUsernameBuyer, &d.SerialNumber, &d.ImageURL, &imageMime); err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		d.Description = description.String
		d.Accessories = accessories.String
		d.ImageMime = imageMime.String
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// UpdateDevice applies a sparse update to a device: only non-nil fields of
// the update are written, everything else keeps its previous value.
func UpdateDevice(ctx context.Context, db DBTX, id string, upd model.DeviceUpdate) (*model.Device, error) {
	existing, err := GetDevice(ctx, db, id)
	if err != nil {
		return nil, err
	}

	merged := upd.Apply(*existing)
	_, err = db.ExecContext(ctx,
		`UPDATE devices SET title = ?, device_type = ?, description = ?, accessories = ?,
		        rz_username_buyer = ?, serial_number = ?, image_url = ?
		 WHERE device_id = ?`,
		merged.Title, merged.DeviceType, nullable(merged.Description), nullable(merged.Accessories),
		merged.RZUsernameBuyer, merged.SerialNumber, merged.ImageURL, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating device: %w", err)
	}

	return GetDevice(ctx, db, id)
}

// DeleteDevice removes a device together with all of its owner transactions,
// location transactions and purchasing information in a single transaction.
// Dependent rows go first so foreign keys hold at every point.
func DeleteDevice(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := GetDevice(ctx, tx, id); err != nil {
		return err
	}

	children := []string{
		`DELETE FROM owner_transactions WHERE device_id = ?`,
		`DELETE FROM location_transactions WHERE device_id = ?`,
		`DELETE FROM purchasing_information WHERE device_id = ?`,
		`DELETE FROM devices WHERE device_id = ?`,
	}
	for _, q := range children {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("deleting device %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing device delete: %w", err)
	}
	return nil
}

// deviceExists checks that a device id references an existing device.
// Returns ErrNotFound otherwise.
func deviceExists(ctx context.Context, db DBTX, id string) error {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM devices WHERE device_id = ?`, id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("device %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking device: %w", err)
	}
	return nil
}

// nullable maps an empty string to NULL so optional text columns stay NULL
// instead of collecting empty strings.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
