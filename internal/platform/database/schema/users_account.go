package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table             string
	ID                string
	Email             string
	PasswordHash      string
	PinHash           string
	IsActive          string
	FailedPinAttempts string
	LockedUntil       string
	CreatedAt         string
	UpdatedAt         string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:             "users.account",
	ID:                "id",
	Email:             "email",
	PasswordHash:      "passwordhash",
	PinHash:           "pinhash",
	IsActive:          "isactive",
	FailedPinAttempts: "failedpinattempts",
	LockedUntil:       "lockeduntil",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.PasswordHash, t.PinHash, t.IsActive,
		t.FailedPinAttempts, t.LockedUntil, t.CreatedAt, t.UpdatedAt,
	}
}
