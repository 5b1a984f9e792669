package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lukasmw/devreg/internal/model"
)

// CreatePurchasingInformation creates the purchasing information record for
// a device. The device must exist, and a device holds at most one record:
// a second create is rejected with ErrConflict (the unique index on
// device_id backs this up at the schema level).
func CreatePurchasingInformation(ctx context.Context, db DBTX, deviceID string, p model.PurchasingInformation) (*model.PurchasingInformation, error) {
	if err := deviceExists(ctx, db, deviceID); err != nil {
		return nil, err
	}
	if p.PurchasingInformationID == "" {
		p.PurchasingInformationID = uuid.NewString()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO purchasing_information (purchasing_information_id, price, timestamp_warranty_end, timestamp_purchase, seller, cost_centre, device_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.PurchasingInformationID, p.Price, p.TimestampWarrantyEnd, p.TimestampPurchase,
		p.Seller, nullable(p.CostCentre), deviceID,
	)
	if isConstraintErr(err) {
		return nil, fmt.Errorf("purchasing information for device %q: %w", deviceID, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating purchasing information: %w", err)
	}

	return GetPurchasingInformation(ctx, db, p.PurchasingInformationID)
}

// GetPurchasingInformationByDevice returns the purchasing information for a
// device. The device must exist; a device without a record yields ErrNotFound.
func GetPurchasingInformationByDevice(ctx context.Context, db DBTX, deviceID string) (*model.PurchasingInformation, error) {
	if err := deviceExists(ctx, db, deviceID); err != nil {
		return nil, err
	}

	p := &model.PurchasingInformation{}
	var costCentre sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT purchasing_information_id, price, timestamp_warranty_end, timestamp_purchase, seller, cost_centre, device_id
		 FROM purchasing_information WHERE device_id = ?`, deviceID,
	).Scan(&p.PurchasingInformationID, &p.Price, &p.TimestampWarrantyEnd, &p.TimestampPurchase,
		&p.Seller, &costCentre, &p.DeviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("purchasing information for device %q: %w", deviceID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting purchasing information: %w", err)
	}
	p.CostCentre = costCentre.String
	return p, nil
}

// GetPurchasingInformation returns a purchasing information record by id.
func GetPurchasingInformation(ctx context.Context, db DBTX, id string) (*model.PurchasingInformation, error) {
	p := &model.PurchasingInformation{}
	var costCentre sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT purchasing_information_id, price, timestamp_warranty_end, timestamp_purchase, seller, cost_centre, device_id
		 FROM purchasing_information WHERE purchasing_information_id = ?`, id,
	).Scan(&p.PurchasingInformationID, &p.Price, &p.TimestampWarrantyEnd, &p.TimestampPurchase,
		&p.Seller, &costCentre, &p.DeviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("purchasing information %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting purchasing information: %w", err)
	}
	p.CostCentre = costCentre.String
	return p, nil
}

// UpdatePurchasingInformation applies a sparse update to a purchasing
// information record.
func UpdatePurchasingInformation(ctx context.Context, db DBTX, id string, upd model.PurchasingInformationUpdate) (*model.PurchasingInformation, error) {
	existing, err := GetPurchasingInformation(ctx, db, id)
	if err != nil {
		return nil, err
	}

	merged := upd.Apply(*existing)
	_, err = db.ExecContext(ctx,
		`UPDATE purchasing_information SET price = ?, timestamp_warranty_end = ?, timestamp_purchase = ?, seller = ?, cost_centre = ?
		 WHERE purchasing_information_id = ?`,
		merged.Price, merged.TimestampWarrantyEnd, merged.TimestampPurchase,
		merged.Seller, nullable(merged.CostCentre), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating purchasing information: %w", err)
	}

	return GetPurchasingInformation(ctx, db, id)
}

// DeletePurchasingInformation removes a purchasing information record by id.
func DeletePurchasingInformation(ctx context.Context, db DBTX, id string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM purchasing_information WHERE purchasing_information_id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting purchasing information: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("purchasing information %q: %w", id, ErrNotFound)
	}
	return nil
}
