package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lukasmw/devreg/internal/db"
	"github.com/lukasmw/devreg/internal/model"
)

func TestCreateAndGetPurchasingInformation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDevice(ctx, database, testDevice("d1"))

	created, err := CreatePurchasingInformation(ctx, database, "d1", model.PurchasingInformation{
		Price:                "999.99",
		TimestampWarrantyEnd: 2000,
		TimestampPurchase:    1000,
		Seller:               "Dell",
		CostCentre:           "CC-42",
	})
	if err != nil {
		t.Fatalf("CreatePurchasingInformation: %v", err)
	}
	if created.PurchasingInformationID == "" {
		t.Error("expected generated id")
	}

	byDevice, err := GetPurchasingInformationByDevice(ctx, database, "d1")
	if err != nil {
		t.Fatalf("GetPurchasingInformationByDevice: %v", err)
	}
	if *byDevice != *created {
		t.Errorf("expected %+v, got %+v", created, byDevice)
	}

	byID, err := GetPurchasingInformation(ctx, database, created.PurchasingInformationID)
	if err != nil {
		t.Fatalf("GetPurchasingInformation: %v", err)
	}
	if byID.Seller != "Dell" {
		t.Errorf("expected seller 'Dell', got %q", byID.Seller)
	}
}

func TestCreatePurchasingInformationMissingDevice(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreatePurchasingInformation(context.Background(), database, "missing", model.PurchasingInformation{
		Price: "1", Seller: "X",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePurchasingInformationSecondRecordRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDevice(ctx, database, testDevice("d1"))
	if _, err := CreatePurchasingInformation(ctx, database, "d1", model.PurchasingInformation{
		Price: "100", Seller: "A",
	}); err != nil {
		t.Fatalf("first CreatePurchasingInformation: %v", err)
	}

	// At most one record per device.
	_, err := CreatePurchasingInformation(ctx, database, "d1", model.PurchasingInformation{
		Price: "200", Seller: "B",
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for second record, got %v", err)
	}

	// The original record is untouched.
	info, _ := GetPurchasingInformationByDevice(ctx, database, "d1")
	if info.Price != "100" {
		t.Errorf("expected original price '100', got %q", info.Price)
	}
}

func TestUpdatePurchasingInformationPartial(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDevice(ctx, database, testDevice("d1"))
	created, _ := CreatePurchasingInformation(ctx, database, "d1", model.PurchasingInformation{
		Price: "999.99", TimestampWarrantyEnd: 2000, TimestampPurchase: 1000, Seller: "Dell",
	})

	seller := "Lenovo"
	updated, err := UpdatePurchasingInformation(ctx, database, created.PurchasingInformationID, model.PurchasingInformationUpdate{
		Seller: &seller,
	})
	if err != nil {
		t.Fatalf("UpdatePurchasingInformation: %v", err)
	}
	if updated.Seller != "Lenovo" {
		t.Errorf("expected seller 'Lenovo', got %q", updated.Seller)
	}
	if updated.Price != "999.99" || updated.TimestampPurchase != 1000 {
		t.Errorf("unrelated fields changed: %+v", updated)
	}
}

func TestDeletePurchasingInformation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDevice(ctx, database, testDevice("d1"))
	created, _ := CreatePurchasingInformation(ctx, database, "d1", model.PurchasingInformation{
		Price: "1", Seller: "X",
	})

	if err := DeletePurchasingInformation(ctx, database, created.PurchasingInformationID); err != nil {
		t.Fatalf("DeletePurchasingInformation: %v", err)
	}

	if _, err := GetPurchasingInformationByDevice(ctx, database, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting frees the slot for a new record.
	if _, err := CreatePurchasingInformation(ctx, database, "d1", model.PurchasingInformation{
		Price: "2", Seller: "Y",
	}); err != nil {
		t.Errorf("expected create after delete to succeed, got %v", err)
	}
}
