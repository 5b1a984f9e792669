package model

// PurchasingInformation holds the purchase and warranty details of a device.
// A device has at most one purchasing information record.
type PurchasingInformation struct {
	PurchasingInformationID string `json:"purchasing_information_id"`
	Price                   string `json:"price"`
	TimestampWarrantyEnd    int64  `json:"timestamp_warranty_end"`
	TimestampPurchase       int64  `json:"timestamp_purchase"`
	Seller                  string `json:"seller"`
	CostCentre              string `json:"cost_centre,omitempty"`
	DeviceID                string `json:"device_id"`
}

// PurchasingInformationUpdate is a sparse update: only non-nil fields are applied.
type PurchasingInformationUpdate struct {
	Price                *string `json:"price"`
	TimestampWarrantyEnd *int64  `json:"timestamp_warranty_end"`
	TimestampPurchase    *int64  `json:"timestamp_purchase"`
	Seller               *string `json:"seller"`
	CostCentre           *string `json:"cost_centre"`
}

// Apply merges the update into p, returning the merged record.
func (u PurchasingInformationUpdate) Apply(p PurchasingInformation) PurchasingInformation {
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.TimestampWarrantyEnd != nil {
		p.TimestampWarrantyEnd = *u.TimestampWarrantyEnd
	}
	if u.TimestampPurchase != nil {
		p.TimestampPurchase = *u.TimestampPurchase
	}
	if u.Seller != nil {
		p.Seller = *u.Seller
	}
	if u.CostCentre != nil {
		p.CostCentre = *u.CostCentre
	}
	return p
}
