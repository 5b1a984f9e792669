// Package transfer implements bulk export, import and purge of the
// device-related tables as one JSON document. Users are never part of a
// transfer.
package transfer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lukasmw/devreg/internal/model"
	"github.com/lukasmw/devreg/internal/store"
)

// Document is the bulk transfer format. Field names are stable so
// previously exported files keep round-tripping.
type Document struct {
	Devices               []DeviceEntry                 `json:"devices"`
	OwnerTransactions     []model.OwnerTransaction      `json:"owner_transactions"`
	LocationTransactions  []model.LocationTransaction   `json:"location_transactions"`
	PurchasingInformation []model.PurchasingInformation `json:"purchasing_information"`
}

// DeviceEntry is a device as it appears in a transfer document. Photo
// bytes and the derived mime type stay in the database: importing an
// exported document and exporting again yields the same document.
type DeviceEntry struct {
	DeviceID        string `json:"device_id"`
	Title           string `json:"title"`
	DeviceType      string `json:"device_type"`
	Description     string `json:"description,omitempty"`
	Accessories     string `json:"accessories,omitempty"`
	RZUsernameBuyer string `json:"rz_username_buyer"`
	SerialNumber    string `json:"serial_number"`
	ImageURL        string `json:"image_url"`
}

func toEntry(d model.Device) DeviceEntry {
	return DeviceEntry{
		DeviceID:        d.DeviceID,
		Title:           d.Title,
		DeviceType:      d.DeviceType,
		Description:     d.Description,
		Accessories:     d.Accessories,
		RZUsernameBuyer: d.RZUsernameBuyer,
		SerialNumber:    d.SerialNumber,
		ImageURL:        d.ImageURL,
	}
}

func (e DeviceEntry) device() model.Device {
	return model.Device{
		DeviceID:        e.DeviceID,
		Title:           e.Title,
		DeviceType:      e.DeviceType,
		Description:     e.Description,
		Accessories:     e.Accessories,
		RZUsernameBuyer: e.RZUsernameBuyer,
		SerialNumber:    e.SerialNumber,
		ImageURL:        e.ImageURL,
	}
}

// Export produces a document covering every device, transaction and
// purchasing information row, ordered by primary key. Export never mutates
// the database.
func Export(ctx context.Context, db *sql.DB) (*Document, error) {
	doc := &Document{
		Devices:               []DeviceEntry{},
		OwnerTransactions:     []model.OwnerTransaction{},
		LocationTransactions:  []model.LocationTransaction{},
		PurchasingInformation: []model.PurchasingInformation{},
	}

	devices, err := store.ListDevices(ctx, db, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("exporting devices: %w", err)
	}
	for _, d := range devices {
		doc.Devices = append(doc.Devices, toEntry(d))
	}

	rows, err := db.QueryContext(ctx,
		`SELECT owner_transaction_id, rz_username, timestamp_owner_since, device_id
		 FROM owner_transactions ORDER BY owner_transaction_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("exporting owner transactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t model.OwnerTransaction
		if err := rows.Scan(&t.OwnerTransactionID, &t.RZUsername, &t.TimestampOwnerSince, &t.DeviceID); err != nil {
			return nil, fmt.Errorf("scanning owner transaction: %w", err)
		}
		doc.OwnerTransactions = append(doc.OwnerTransactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT location_transaction_id, room_code, timestamp_located_since, device_id
		 FROM location_transactions ORDER BY location_transaction_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("exporting location transactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t model.LocationTransaction
		if err := rows.Scan(&t.LocationTransactionID, &t.RoomCode, &t.TimestampLocatedSince, &t.DeviceID); err != nil {
			return nil, fmt.Errorf("scanning location transaction: %w", err)
		}
		doc.LocationTransactions = append(doc.LocationTransactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT purchasing_information_id, price, timestamp_warranty_end, timestamp_purchase, seller, COALESCE(cost_centre, ''), device_id
		 FROM purchasing_information ORDER BY purchasing_information_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("exporting purchasing information: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p model.PurchasingInformation
		if err := rows.Scan(&p.PurchasingInformationID, &p.Price, &p.TimestampWarrantyEnd,
			&p.TimestampPurchase, &p.Seller, &p.CostCentre, &p.DeviceID); err != nil {
			return nil, fmt.Errorf("scanning purchasing information: %w", err)
		}
		doc.PurchasingInformation = append(doc.PurchasingInformation, p)
	}
	return doc, rows.Err()
}

// Import replays a document into the database in dependency order: devices
// first, then owner transactions, location transactions and purchasing
// information, so every foreign key target exists before it is referenced.
//
// Import merges: existing rows are never deleted or overwritten. The whole
// replay runs in one transaction, so a colliding id (store.ErrConflict) or
// a reference to a device that exists neither in the document nor in the
// database (store.ErrNotFound) rolls back every insert made by this call.
func Import(ctx context.Context, db *sql.DB, doc *Document) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range doc.Devices {
		if _, err := store.CreateDevice(ctx, tx, e.device()); err != nil {
			return fmt.Errorf("importing device %q: %w", e.DeviceID, err)
		}
	}
	for _, t := range doc.OwnerTransactions {
		if _, err := store.CreateOwnerTransaction(ctx, tx, t.DeviceID, t); err != nil {
			return fmt.Errorf("importing owner transaction %q: %w", t.OwnerTransactionID, err)
		}
	}
	for _, t := range doc.LocationTransactions {
		if _, err := store.CreateLocationTransaction(ctx, tx, t.DeviceID, t); err != nil {
			return fmt.Errorf("importing location transaction %q: %w", t.LocationTransactionID, err)
		}
	}
	for _, p := range doc.PurchasingInformation {
		if _, err := store.CreatePurchasingInformation(ctx, tx, p.DeviceID, p); err != nil {
			return fmt.Errorf("importing purchasing information %q: %w", p.PurchasingInformationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// Purge deletes every device, transaction and purchasing information row in
// one transaction, children before parents. The users table is untouched.
func Purge(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning purge transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []string{
		`DELETE FROM owner_transactions`,
		`DELETE FROM location_transactions`,
		`DELETE FROM purchasing_information`,
		`DELETE FROM devices`,
	}
	for _, q := range tables {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("purging: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing purge: %w", err)
	}
	return nil
}
