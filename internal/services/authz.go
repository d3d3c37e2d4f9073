package services

import "classifieds/internal/apperrors"

// Authorize allows a mutation only when the caller owns the resource.
func Authorize(ownerID, callerID uint) error {
	if callerID == 0 {
		return apperrors.ErrUnauthenticated
	}
	if ownerID != callerID {
		return apperrors.ErrForbidden
	}
	return nil
}

func uintPtr(v uint) *uint {
	return &v
}
