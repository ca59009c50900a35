package handler

// SignupRequest is the signup body. Older clients send the display name as
// fullName.
type SignupRequest struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// DisplayName returns name, falling back to fullName
func (r SignupRequest) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.FullName
}

// LoginRequest is the login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FillFormRequest is one collected record
type FillFormRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Status  string `json:"status"`
	Notes   string `json:"notes" binding:"max=2000"`
}

// CreateGroupRequest is the body for creating a group. Older clients send
// maxMembers.
type CreateGroupRequest struct {
	Name             string `json:"name" binding:"notblank,max=200"`
	MaxMembers       *int   `json:"max_members" binding:"omitempty,gte=0"`
	LegacyMaxMembers *int   `json:"maxMembers" binding:"omitempty,gte=0"`
}

// Capacity returns max_members, falling back to maxMembers. Zero means
// unbounded.
func (r CreateGroupRequest) Capacity() int {
	switch {
	case r.MaxMembers != nil:
		return *r.MaxMembers
	case r.LegacyMaxMembers != nil:
		return *r.LegacyMaxMembers
	}
	return 0
}

// AddMembersRequest is the body for adding users to a group. Older clients
// send userIds.
type AddMembersRequest struct {
	UserIDs       []string `json:"user_ids" binding:"omitempty,dive,uuid"`
	LegacyUserIDs []string `json:"userIds" binding:"omitempty,dive,uuid"`
}

// IDs returns user_ids, falling back to userIds
func (r AddMembersRequest) IDs() []string {
	if len(r.UserIDs) > 0 {
		return r.UserIDs
	}
	return r.LegacyUserIDs
}
