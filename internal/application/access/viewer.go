package access

import (
	"github.com/fieldcollect/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// Viewer is the verified caller of a data view. Role is the stored role,
// never the token claim.
type Viewer struct {
	UserID uuid.UUID
	Role   identity.Role
}

// IsAdmin reports whether the viewer may use admin views
func (v Viewer) IsAdmin() bool {
	return v.Role == identity.RoleAdmin
}

// CanRead reports whether the viewer may read data owned by userID
func (v Viewer) CanRead(userID uuid.UUID) bool {
	return v.IsAdmin() || v.UserID == userID
}
