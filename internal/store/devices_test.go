package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lukasmw/devreg/internal/db"
	"github.com/lukasmw/devreg/internal/model"
)

func testDevice(id string) model.Device {
	return model.Device{
		DeviceID:        id,
		Title:           "Laptop",
		DeviceType:      "Laptop",
		Description:     "Dell XPS 15",
		Accessories:     "charger, dock",
		RZUsernameBuyer: "user",
		SerialNumber:    "SN1",
		ImageURL:        "http://x",
	}
}

func TestCreateAndGetDevice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, err := CreateDevice(ctx, database, testDevice("d1"))
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}

	got, err := GetDevice(ctx, database, "d1")
	if err != nil {
		t.Fatalf("GetDevice: %v", err)
	}
	if *got != *created {
		t.Errorf("round-trip mismatch: created %+v, got %+v", created, got)
	}
	if got.Description != "Dell XPS 15" || got.SerialNumber != "SN1" {
		t.Errorf("fields lost: %+v", got)
	}
}

func TestCreateDeviceGeneratesID(t *testing.T) {
	database := db.NewTestDB(t)

	d := testDevice("")
	created, err := CreateDevice(context.Background(), database, d)
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	if created.DeviceID == "" {
		t.Error("expected generated device id")
	}
}

func TestCreateDeviceDuplicate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDevice(ctx, database, testDevice("d1"))

	_, err := CreateDevice(ctx, database, testDevice("d1"))
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestGetDeviceMissing(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := GetDevice(context.Background(), database, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDevicePartial(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDevice(ctx, database, testDevice("d1"))

	title := "Workstation"
	updated, err := UpdateDevice(ctx, database, "d1", model.DeviceUpdate{Title: &title})
	if err != nil {
		t.Fatalf("UpdateDevice: %v", err)
	}

	if updated.Title != "Workstation" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	// All other fields keep their previous values.
	if updated.DeviceType != "Laptop" || updated.Description != "Dell XPS 15" ||
		updated.SerialNumber != "SN1" || updated.ImageURL != "http://x" {
		t.Errorf("unrelated fields changed: %+v", updated)
	}
}

func TestUpdateDeviceMissing(t *testing.T) {
	database := db.NewTestDB(t)

	title := "X"
	_, err := UpdateDevice(context.Background(), database, "missing", model.DeviceUpdate{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDeviceCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDevice(ctx, database, testDevice("d1"))
	CreateOwnerTransaction(ctx, database, "d1", model.OwnerTransaction{RZUsername: "user", TimestampOwnerSince: 100})
	CreateLocationTransaction(ctx, database, "d1", model.LocationTransaction{RoomCode: "R-101", TimestampLocatedSince: 100})
	CreatePurchasingInformation(ctx, database, "d1", model.PurchasingInformation{Price: "999", Seller: "Dell"})

	if err := DeleteDevice(ctx, database, "d1"); err != nil {
		t.Fatalf("DeleteDevice: %v", err)
	}

	if _, err := GetDevice(ctx, database, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected device gone, got %v", err)
	}
	if _, err := ListOwnerTransactionsByDevice(ctx, database, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected owner transactions gone, got %v", err)
	}
	if _, err := ListLocationTransactionsByDevice(ctx, database, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected location transactions gone, got %v", err)
	}
	if _, err := GetPurchasingInformationByDevice(ctx, database, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected purchasing information gone, got %v", err)
	}

	// No orphaned rows left behind.
	var count int
	database.QueryRow(`SELECT COUNT(*) FROM owner_transactions`).Scan(&count)
	if count != 0 {
		t.Errorf("expected 0 owner transactions, got %d", count)
	}
}

func TestDeleteDeviceMissing(t *testing.T) {
	database := db.NewTestDB(t)

	err := DeleteDevice(context.Background(), database, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListDevices(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDevice(ctx, database, testDevice("d1"))
	CreateDevice(ctx, database, testDevice("d2"))

	devices, err := ListDevices(ctx, database, 0, 0)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 2 {
		t.Errorf("expected 2 devices, got %d", len(devices))
	}
}

func TestDeviceImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDevice(ctx, database, testDevice("d1"))

	imageData := []byte("fake image data")
	if err := SetDeviceImage(ctx, database, "d1", imageData, "image/jpeg"); err != nil {
		t.Fatalf("SetDeviceImage: %v", err)
	}

	data, mime, err := GetDeviceImage(ctx, database, "d1")
	if err != nil {
		t.Fatalf("GetDeviceImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
}

func TestDeviceImageMissing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDevice(ctx, database, testDevice("d1"))

	// Device exists but has no photo yet.
	if _, _, err := GetDeviceImage(ctx, database, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for device without photo, got %v", err)
	}

	if err := SetDeviceImage(ctx, database, "missing", []byte("x"), "image/jpeg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing device, got %v", err)
	}
}
