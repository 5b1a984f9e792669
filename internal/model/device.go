package model

// Device represents a tracked device. ImageMime is only set once a photo
// has been uploaded; the photo bytes themselves are stored separately.
type Device struct {
	DeviceID        string `json:"device_id"`
	Title           string `json:"title"`
	DeviceType      string `json:"device_type"`
	Description     string `json:"description,omitempty"`
	Accessories     string `json:"accessories,omitempty"`
	RZUsernameBuyer string `json:"rz_username_buyer"`
	SerialNumber    string `json:"serial_number"`
	ImageURL        string `json:"image_url"`
	ImageMime       string `json:"image_mime,omitempty"`
}

// DeviceUpdate is a sparse update: only non-nil fields are applied.
type DeviceUpdate struct {
	Title           *string `json:"title"`
	DeviceType      *string `json:"device_type"`
	Description     *string `json:"description"`
	Accessories     *string `json:"accessories"`
	RZUsernameBuyer *string `json:"rz_username_buyer"`
	SerialNumber    *string `json:"serial_number"`
	ImageURL        *string `json:"image_url"`
}

// Apply merges the update into d, returning the merged record.
// Fields left nil in the update keep their previous values.
func (u DeviceUpdate) Apply(d Device) Device {
	if u.Title != nil {
		d.Title = *u.Title
	}
	if u.DeviceType != nil {
		d.DeviceType = *u.DeviceType
	}
	if u.Description != nil {
		d.Description = *u.Description
	}
	if u.Accessories != nil {
		d.Accessories = *u.Accessories
	}
	if u.RZUsernameBuyer != nil {
		d.RZUsernameBuyer = *u.RZUsernameBuyer
	}
	if u.SerialNumber != nil {
		d.SerialNumber = *u.SerialNumber
	}
	if u.ImageURL != nil {
		d.ImageURL = *u.ImageURL
	}
	return d
}
