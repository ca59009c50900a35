package handler

import (
	groupapp "github.com/fieldcollect/backend/internal/application/group"
	identityapp "github.com/fieldcollect/backend/internal/application/identity"
	submissionapp "github.com/fieldcollect/backend/internal/application/submission"
	"github.com/fieldcollect/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
)

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toUserResponse(u identityapp.UserInfo) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		GroupID:   uuidString(u.GroupID),
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []identityapp.UserInfo) []dto.UserResponse {
	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

func toGroupResponse(g groupapp.GroupResponse) dto.GroupResponse {
	members := make([]string, len(g.MemberIDs))
	for i, id := range g.MemberIDs {
		members[i] = id.String()
	}
	return dto.GroupResponse{
		ID:          g.ID.String(),
		Name:        g.Name,
		MaxMembers:  g.MaxMembers,
		Members:     members,
		MemberCount: g.MemberCount,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toGroupResponses(groups []groupapp.GroupResponse) []dto.GroupResponse {
	out := make([]dto.GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = toGroupResponse(g)
	}
	return out
}

func toSubmissionResponses(subs []submissionapp.SubmissionResponse) []dto.SubmissionResponse {
	out := make([]dto.SubmissionResponse, len(subs))
	for i, s := range subs {
		out[i] = dto.SubmissionResponse{
			ID:              s.ID.String(),
			Name:            s.Name,
			Phone:           s.Phone,
			Address:         s.Address,
			Status:          string(s.Status),
			Notes:           s.Notes,
			CollectedBy:     s.CollectedBy.String(),
			GroupID:         uuidString(s.GroupID),
			SubmittedByName: s.SubmittedByName,
			CreatedAt:       s.CreatedAt,
		}
	}
	return out
}
