// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

/*
Package audit records the authentication trail.

Every credential or biometric attempt (successful or not) produces one
immutable entry. Entries are append-only: nothing in the API can mutate
or delete them.
*/
package audit

import "time"

// Entry is one immutable record in the authentication trail.
type Entry struct {
	ID string `json:"id"`

	// UserID is empty for attempts against unknown accounts. It is stored
	// as NULL so the column can keep its foreign key.
	UserID string `json:"user_id,omitempty"`

	// Action identifies the operation, e.g. "login_password" or "face_verify".
	Action string `json:"action"`

	// Success records the outcome of the attempt.
	Success bool `json:"success"`

	// IPAddress is the client address the attempt originated from.
	IPAddress string `json:"ip_address"`

	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows a trail listing.
type Filter struct {
	// UserID restricts entries to one account when non-empty.
	UserID string

	// Action restricts entries to one operation when non-empty.
	Action string
}
