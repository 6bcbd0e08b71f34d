package domain

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID int64
	Role   Role
}

// IsClient reports whether ownership rules apply to the actor.
func (a Actor) IsClient() bool {
	return a.Role == RoleClient
}

// CanManage reports whether the actor holds a back-office role.
func (a Actor) CanManage() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

// IsAdmin reports whether the actor is an administrator.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor may act on a resource owned by userID.
func (a Actor) Owns(userID int64) bool {
	return !a.IsClient() || a.UserID == userID
}
