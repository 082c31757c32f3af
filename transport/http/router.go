package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(
	authService *service.AuthService,
	webAuthnService *service.WebAuthnService,
	attendanceService *service.AttendanceService,
) *gin.Engine {
	router := gin.Default()

	// Create handlers
	authHandler := NewAuthHandler(authService)
	webAuthnHandler := NewWebAuthnHandler(webAuthnService, authService)
	attendanceHandler := NewAttendanceHandler(attendanceService)

	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes. Admin creation does its own auth check because the
	// bootstrap path is open until the first admin exists.
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/admin/create", authHandler.CreateAdmin)
		auth.POST("/change-password", AuthRequired(authService), authHandler.ChangePassword)
		auth.GET("/users",
			AuthRequired(authService),
			RolesRequired(authService, core.RoleAdmin, core.RoleHR),
			authHandler.ListUsers)
		auth.POST("/admin/employees",
			AuthRequired(authService),
			RolesRequired(authService, core.RoleAdmin),
			authHandler.CreateEmployee)
	}

	// WebAuthn ceremonies. Registration requires a session; the login
	// ceremony is the second factor and runs before a session exists.
	webAuthn := api.Group("/webauthn")
	{
		webAuthn.GET("/login/begin", webAuthnHandler.LoginBegin)
		webAuthn.POST("/login/finish", webAuthnHandler.LoginFinish)

		registered := webAuthn.Group("", AuthRequired(authService))
		registered.GET("/register/begin", webAuthnHandler.RegisterBegin)
		registered.POST("/register/finish", webAuthnHandler.RegisterFinish)
		registered.GET("/registration-status", webAuthnHandler.RegistrationStatus)
	}

	// Attendance routes, all authenticated
	attendance := api.Group("/attendance", AuthRequired(authService))
	{
		attendance.POST("/clock-in", attendanceHandler.ClockIn)
		attendance.POST("/clock-out", attendanceHandler.ClockOut)
		attendance.GET("/me", attendanceHandler.ListMine)
		attendance.GET("",
			RolesRequired(authService, core.RoleAdmin, core.RoleHR),
			attendanceHandler.List)
	}

	return router
}
