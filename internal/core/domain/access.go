package domain

// Authorize accepts only when the identity's role equals required.
// There is no role hierarchy: an admin is not granted routes that demand a
// different role.
func Authorize(id Identity, required Role) error {
	if id.Role != required {
		return ErrInsufficientRole
	}
	return nil
}

// CanMutate accepts when the identity is an admin or owns the resource.
// A nil owner means the owning account was deleted; only admins may act on
// orphaned resources.
func CanMutate(id Identity, ownerID *int64) error {
	if id.IsAdmin() {
		return nil
	}
	if ownerID != nil && *ownerID == id.SubjectID {
		return nil
	}
	return ErrOwnershipViolation
}
