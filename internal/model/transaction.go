package model

// OwnerTransaction records who owned a device from a given point in time.
// All transactions for a device form an append-only history; the record
// with the highest timestamp is the current owner.
type OwnerTransaction struct {
	OwnerTransactionID  string `json:"owner_transaction_id"`
	RZUsername          string `json:"rz_username"`
	TimestampOwnerSince int64  `json:"timestamp_owner_since"`
	DeviceID            string `json:"device_id"`
}

// OwnerTransactionUpdate is a sparse update: only non-nil fields are applied.
type OwnerTransactionUpdate struct {
	RZUsername          *string `json:"rz_username"`
	TimestampOwnerSince *int64  `json:"timestamp_owner_since"`
}

// Apply merges the update into t, returning the merged record.
func (u OwnerTransactionUpdate) Apply(t OwnerTransaction) OwnerTransaction {
	if u.RZUsername != nil {
		t.RZUsername = *u.RZUsername
	}
	if u.TimestampOwnerSince != nil {
		t.TimestampOwnerSince = *u.TimestampOwnerSince
	}
	return t
}

// LocationTransaction records where a device was located from a given point
// in time. Same append-only shape as OwnerTransaction.
type LocationTransaction struct {
	LocationTransactionID string `json:"location_transaction_id"`
	RoomCode              string `json:"room_code"`
	TimestampLocatedSince int64  `json:"timestamp_located_since"`
	DeviceID              string `json:"device_id"`
}

// LocationTransactionUpdate is a sparse update: only non-nil fields are applied.
type LocationTransactionUpdate struct {
	RoomCode              *string `json:"room_code"`
	TimestampLocatedSince *int64  `json:"timestamp_located_since"`
}

// Apply merges the update into t, returning the merged record.
func (u LocationTransactionUpdate) Apply(t LocationTransaction) LocationTransaction {
	if u.RoomCode != nil {
		t.RoomCode = *u.RoomCode
	}
	if u.TimestampLocatedSince != nil {
		t.TimestampLocatedSince = *u.TimestampLocatedSince
	}
	return t
}
