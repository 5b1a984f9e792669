package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SetDeviceImage stores a device's photo data.
func SetDeviceImage(ctx context.Context, db DBTX, id string, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE devices SET image = ?, image_mime = ? WHERE device_id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting device image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("device %q: %w", id, ErrNotFound)
	}
	return nil
}

// GetDeviceImage returns a device's photo data and MIME type.
// Returns ErrNotFound when the device is missing or has no photo.
func GetDeviceImage(ctx context.Context, db DBTX, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM devices WHERE device_id = ?`, id,
	).Scan(&image, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("device %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting device image: %w", err)
	}
	if image == nil {
		return nil, "", fmt.Errorf("image for device %q: %w", id, ErrNotFound)
	}
	return image, mime.String, nil
}
