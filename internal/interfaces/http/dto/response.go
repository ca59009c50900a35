package dto

import "time"

// Response is the envelope every endpoint answers with. Endpoint payloads
// embed it so their fields sit next to success and message.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// OK creates a success envelope
func OK(message string) Response {
	return Response{Success: true, Message: message}
}

// NewErrorResponse creates an error envelope
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success:   false,
		Message:   message,
		Code:      code,
		RequestID: requestID,
	}
}

// ValidationDetail describes one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse is an error envelope with per-field details
type ValidationErrorResponse struct {
	Response
	Details []ValidationDetail `json:"details,omitempty"`
}

// UserResponse is the public user profile
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	GroupID   *string   `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupResponse is the public view of a group
type GroupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MaxMembers  int       `json:"max_members"`
	Members     []string  `json:"members"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubmissionResponse is the public view of a submission
type SubmissionResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CollectedBy     string    `json:"collected_by"`
	GroupID         *string   `json:"group_id"`
	SubmittedByName string    `json:"submitted_by_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
