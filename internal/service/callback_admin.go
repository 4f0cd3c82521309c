package service

import (
	"context"
	"errors"

	"github.com/readykit/report-api/internal/domain/model"
	apperrors "github.com/readykit/report-api/internal/errors"
)

// Admin surface over the callback audit trail.

// List returns one page of callbacks with optional filters.
func (s *CallbackService) List(ctx context.Context, opts model.CallbackListOptions) (*model.CallbackListPage, error) {
	return s.callbacks.List(ctx, opts)
}

// Get returns a single callback by id.
func (s *CallbackService) Get(ctx context.Context, id string) (*model.Callback, error) {
	return s.callbacks.GetByID(ctx, id)
}

// MarkViewed records that an admin saw a callback. Repeats are no-ops.
func (s *CallbackService) MarkViewed(ctx context.Context, callbackID, adminUserID string) error {
	if s.views == nil {
		return errors.New("callback views are not configured")
	}
	if adminUserID == "" {
		return apperrors.ValidationField("admin_user", "admin user is required")
	}
	// Surface a not-found instead of silently recording a view for a
	// callback that never existed.
	if _, err := s.callbacks.GetByID(ctx, callbackID); err != nil {
		return err
	}
	return s.views.MarkViewed(ctx, callbackID, adminUserID)
}

// UnviewedCount counts callbacks the admin has not seen.
func (s *CallbackService) UnviewedCount(ctx context.Context, adminUserID string) (int, error) {
	if s.views == nil {
		return 0, errors.New("callback views are not configured")
	}
	if adminUserID == "" {
		return 0, apperrors.ValidationField("admin_user", "admin user is required")
	}
	return s.views.UnviewedCount(ctx, adminUserID)
}

// Delete removes a callback and its view records.
func (s *CallbackService) Delete(ctx context.Context, id string) error {
	deleted, err := s.callbacks.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("callback not found")
	}
	return nil
}
