package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lukasmw/devreg/internal/model"
)

// CreateOwnerTransaction appends an owner transaction to a device's history.
// The device must exist. A transaction id is generated if the caller did not
// supply one.
func CreateOwnerTransaction(ctx context.Context, db DBTX, deviceID string, t model.OwnerTransaction) (*model.OwnerTransaction, error) {
	if err := deviceExists(ctx, db, deviceID); err != nil {
		return nil, err
	}
	if t.OwnerTransactionID == "" {
		t.OwnerTransactionID = uuid.NewString()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO owner_transactions (owner_transaction_id, rz_username, timestamp_owner_since, device_id)
		 VALUES (?, ?, ?, ?)`,
		t.OwnerTransactionID, t.RZUsername, t.TimestampOwnerSince, deviceID,
	)
	if isConstraintErr(err) {
		return nil, fmt.Errorf("creating owner transaction %q: %w", t.OwnerTransactionID, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating owner transaction: %w", err)
	}

	return GetOwnerTransaction(ctx, db, t.OwnerTransactionID)
}

// ListOwnerTransactionsByDevice returns all owner transactions for a device.
// The device must exist; a device without history yields an empty slice.
func ListOwnerTransactionsByDevice(ctx context.Context, db DBTX, deviceID string) ([]model.OwnerTransaction, error) {
	if err := deviceExists(ctx, db, deviceID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT owner_transaction_id, rz_username, timestamp_owner_since, device_id
		 FROM owner_transactions WHERE device_id = ? ORDER BY timestamp_owner_since`,
		deviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing owner transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.OwnerTransaction
	for rows.Next() {
		var t model.OwnerTransaction
		if err := rows.Scan(&t.OwnerTransactionID, &t.RZUsername, &t.TimestampOwnerSince, &t.DeviceID); err != nil {
			return nil, fmt.Errorf("scanning owner transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// LatestOwnerTransaction returns the owner transaction with the highest
// "owner since" timestamp, i.e. the current owner. Returns ErrNotFound when
// the device is missing or has no owner history.
func LatestOwnerTransaction(ctx context.Context, db DBTX, deviceID string) (*model.OwnerTransaction, error) {
	if err := deviceExists(ctx, db, deviceID); err != nil {
		return nil, err
	}

	t := &model.OwnerTransaction{}
	err := db.QueryRowContext(ctx,
		`SELECT owner_transaction_id, rz_username, timestamp_owner_since, device_id
		 FROM owner_transactions WHERE device_id = ?
		 ORDER BY timestamp_owner_since DESC LIMIT 1`,
		deviceID,
	).Scan(&t.OwnerTransactionID, &t.RZUsername, &t.TimestampOwnerSince, &t.DeviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("owner history for device %q: %w", deviceID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest owner transaction: %w", err)
	}
	return t, nil
}

// GetOwnerTransaction returns an owner transaction by id.
func GetOwnerTransaction(ctx context.Context, db DBTX, id string) (*model.OwnerTransaction, error) {
	t := &model.OwnerTransaction{}
	err := db.QueryRowContext(ctx,
		`SELECT owner_transaction_id, rz_username, timestamp_owner_since, device_id
		 FROM owner_transactions WHERE owner_transaction_id = ?`, id,
	).Scan(&t.OwnerTransactionID, &t.RZUsername, &t.TimestampOwnerSince, &t.DeviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("owner transaction %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting owner transaction: %w", err)
	}
	return t, nil
}

// UpdateOwnerTransaction applies a sparse update to an owner transaction.
func UpdateOwnerTransaction(ctx context.Context, db DBTX, id string, upd model.OwnerTransactionUpdate) (*model.OwnerTransaction, error) {
	existing, err := GetOwnerTransaction(ctx, db, id)
	if err != nil {
		return nil, err
	}

	merged := upd.Apply(*existing)
	_, err = db.ExecContext(ctx,
		`UPDATE owner_transactions SET rz_username = ?, timestamp_owner_since = ?
		 WHERE owner_transaction_id = ?`,
		merged.RZUsername, merged.TimestampOwnerSince, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating owner transaction: %w", err)
	}

	return GetOwnerTransaction(ctx, db, id)
}

// DeleteOwnerTransaction removes an owner transaction by id.
func DeleteOwnerTransaction(ctx context.Context, db DBTX, id string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM owner_transactions WHERE owner_transaction_id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting owner transaction: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("owner transaction %q: %w", id, ErrNotFound)
	}
	return nil
}

// CreateLocationTransaction appends a location transaction to a device's
// history. Same contract as CreateOwnerTransaction.
func CreateLocationTransaction(ctx context.Context, db DBTX, deviceID string, t model.LocationTransaction) (*model.LocationTransaction, error) {
	if err := deviceExists(ctx, db, deviceID); err != nil {
		return nil, err
	}
	if t.LocationTransactionID == "" {
		t.LocationTransactionID = uuid.NewString()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO location_transactions (location_transaction_id, room_code, timestamp_located_since, device_id)
		 VALUES (?, ?, ?, ?)`,
		t.LocationTransactionID, t.RoomCode, t.TimestampLocatedSince, deviceID,
	)
	if isConstraintErr(err) {
		return nil, fmt.Errorf("creating location transaction %q: %w", t.LocationTransactionID, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating location transaction: %w", err)
	}

	return GetLocationTransaction(ctx, db, t.LocationTransactionID)
}

// ListLocationTransactionsByDevice returns all location transactions for a
// device. The device must exist.
func ListLocationTransactionsByDevice(ctx context.Context, db DBTX, deviceID string) ([]model.LocationTransaction, error) {
	if err := deviceExists(ctx, db, deviceID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT location_transaction_id, room_code, timestamp_located_since, device_id
		 FROM location_transactions WHERE device_id = ? ORDER BY timestamp_located_since`,
		deviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing location transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.LocationTransaction
	for rows.Next() {
		var t model.LocationTransaction
		if err := rows.Scan(&t.LocationTransactionID, &t.RoomCode, &t.TimestampLocatedSince, &t.DeviceID); err != nil {
			return nil, fmt.Errorf("scanning location transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// LatestLocationTransaction returns the location transaction with the highest
// "located since" timestamp, i.e. the current location.
func LatestLocationTransaction(ctx context.Context, db DBTX, deviceID string) (*model.LocationTransaction, error) {
	if err := deviceExists(ctx, db, deviceID); err != nil {
		return nil, err
	}

	t := &model.LocationTransaction{}
	err := db.QueryRowContext(ctx,
		`SELECT location_transaction_id, room_code, timestamp_located_since, device_id
		 FROM location_transactions WHERE device_id = ?
		 ORDER BY timestamp_located_since DESC LIMIT 1`,
		deviceID,
	).Scan(&t.LocationTransactionID, &t.RoomCode, &t.TimestampLocatedSince, &t.DeviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location history for device %q: %w", deviceID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest location transaction: %w", err)
	}
	return t, nil
}

// GetLocationTransaction returns a location transaction by id.
func GetLocationTransaction(ctx context.Context, db DBTX, id string) (*model.LocationTransaction, error) {
	t := &model.LocationTransaction{}
	err := db.QueryRowContext(ctx,
		`SELECT location_transaction_id, room_code, timestamp_located_since, device_id
		 FROM location_transactions WHERE location_transaction_id = ?`, id,
	).Scan(&t.LocationTransactionID, &t.RoomCode, &t.TimestampLocatedSince, &t.DeviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location transaction %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting location transaction: %w", err)
	}
	return t, nil
}

// UpdateLocationTransaction applies a sparse update to a location transaction.
func UpdateLocationTransaction(ctx context.Context, db DBTX, id string, upd model.LocationTransactionUpdate) (*model.LocationTransaction, error) {
	existing, err := GetLocationTransaction(ctx, db, id)
	if err != nil {
		return nil, err
	}

	merged := upd.Apply(*existing)
	_, err = db.ExecContext(ctx,
		`UPDATE location_transactions SET room_code = ?, timestamp_located_since = ?
		 WHERE location_transaction_id = ?`,
		merged.RoomCode, merged.TimestampLocatedSince, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating location transaction: %w", err)
	}

	return GetLocationTransaction(ctx, db, id)
}

// DeleteLocationTransaction removes a location transaction by id.
func DeleteLocationTransaction(ctx context.Context, db DBTX, id string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM location_transactions WHERE location_transaction_id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting location transaction: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("location transaction %q: %w", id, ErrNotFound)
	}
	return nil
}
