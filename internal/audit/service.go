// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package audit

import (
	"context"
	"log/slog"

	"github.com/veriface/veriface/internal/platform/ctxutil"
	"github.com/veriface/veriface/pkg/uuid"
)

// Service implements trail recording and retrieval use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
RecordAuth appends one authentication event to the trail.

Description: Recording is best effort. A storage failure is logged and
swallowed so that the trail can never block or fail an authentication
flow. The insert runs on a detached context: a client that disconnects
right after the attempt still leaves its trace.

Parameters:
  - context: context.Context
  - userID: string (empty for attempts against unknown accounts)
  - action: string
  - success: bool
  - ipAddress: string
*/
func (service *Service) RecordAuth(requestContext context.Context, userID, action string, success bool, ipAddress string) {
	entry := &Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		Success:   success,
		IPAddress: ipAddress,
	}

	if err := service.repository.Insert(context.WithoutCancel(requestContext), entry); err != nil {
		ctxutil.Logger(requestContext).WarnContext(requestContext, "audit_record_failed",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}

/*
List retrieves a filtered, paginated slice of the trail, newest first.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Entry: Page of entries
  - int: Total matching entries
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error) {
	return service.repository.List(context, filter, limit, offset)
}
