// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package biometric

import (
	"context"
)

// # Template Data Access

// TemplateRepository defines the data access contract for encrypted
// biometric templates.
type TemplateRepository interface {

	/*
		Upsert stores a template, replacing any previous enrollment for the
		same user. Re-enrollment overwrites rather than accumulates: one
		user has exactly one active template.

		Parameters:
		  - context: context.Context
		  - template: *Template

		Returns:
		  - error: Persistence failures
	*/
	Upsert(context context.Context, template *Template) error

	/*
		FindByUserID returns the enrolled template for a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - *Template: Hydrated entity with the encrypted envelope
		  - error: apperr.NotFound when no enrollment exists
	*/
	FindByUserID(context context.Context, userID string) (*Template, error)
}
