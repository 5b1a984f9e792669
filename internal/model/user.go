package model

// User represents an account identified by its RZ username.
// The password hash is never serialized to clients.
type User struct {
	RZUsername         string `json:"rz_username"`
	FullName           string `json:"full_name"`
	OrganisationUnit   string `json:"organisation_unit"`
	HasAdminPrivileges bool   `json:"has_admin_privileges"`
	PasswordHash       string `json:"-"`
}
