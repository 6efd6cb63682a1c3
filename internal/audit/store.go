// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package audit

import (
	"context"
)

// # Trail Data Access

// Repository defines the data access contract for the authentication trail.
type Repository interface {

	/*
		Insert appends one entry to the trail.

		Parameters:
		  - context: context.Context
		  - entry: *Entry

		Returns:
		  - error: Persistence failures
	*/
	Insert(context context.Context, entry *Entry) error

	/*
		List retrieves a filtered, paginated slice of the trail, newest first.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Entry: Page of entries ordered by creation time descending
		  - int: Total number of entries matching the filter
		  - error: Database execution or scanning errors
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error)
}
