package router

import (
	"github.com/fieldcollect/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// API holds the handlers and guards behind the /api routes
type API struct {
	Auth       *handler.AuthHandler
	Submission *handler.SubmissionHandler
	Admin      *handler.AdminHandler
	User       *handler.UserHandler

	// Session rejects requests without a valid session
	Session gin.HandlerFunc
	// RequireAdmin rejects sessions whose stored role is not admin
	RequireAdmin gin.HandlerFunc
	// CredentialLimit guards signup and login; nil disables it
	CredentialLimit gin.HandlerFunc
}

// Groups returns the route groups of the API
func (a API) Groups() []RouteRegistrar {
	credential := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if a.CredentialLimit == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{a.CredentialLimit, h}
	}

	auth := NewDomainGroup("auth", "/auth").
		POST("/signup", credential(a.Auth.Signup)...).
		POST("/login", credential(a.Auth.Login)...).
		POST("/logout", a.Auth.Logout).
		GET("/me", a.Session, a.Auth.Me).
		POST("/fill-form", a.Session, a.Submission.FillForm)

	admin := NewDomainGroup("admin", "/admin").
		Use(a.Session, a.RequireAdmin).
		GET("", a.Admin.Home).
		GET("/users", a.Admin.ListUsers).
		GET("/groups", a.Admin.ListGroups).
		POST("/groups", a.Admin.CreateGroup).
		POST("/groups/:groupId/members", a.Admin.AddMembers).
		GET("/collected", a.Admin.Collected)

	user := NewDomainGroup("user", "/user").
		Use(a.Session).
		GET("/group/:userId", a.User.GetGroup).
		GET("/submissions/:userId", a.User.ListSubmissions)

	return []RouteRegistrar{auth, admin, user}
}
