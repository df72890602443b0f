package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elmanzah/reservation-app/controllers"
	"github.com/elmanzah/reservation-app/middlewares"
	"github.com/elmanzah/reservation-app/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// 50 requests per second per IP; registered before any route so the
	// limiter is part of every handler chain.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	// One lock set for everything that mutates table state.
	locks := services.NewTableLocks()

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db, locks)
	reservationCtrl := controllers.NewReservationController(db, locks)
	externalCtrl := controllers.NewExternalController(db, locks)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// Booking form, no auth required
	r.POST("/reservations", reservationCtrl.CreateReservation)

	// Partner-site intake, restricted by origin allow-list
	external := r.Group("/external")
	external.Use(middlewares.ExternalOriginCheck())
	{
		external.POST("/reservations", externalCtrl.CreateExternalReservation)
		external.OPTIONS("/reservations", func(c *gin.Context) {})
	}

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())
	auth.Use(middlewares.RequireAdmin())

	auth.GET("/profile", userCtrl.GetProfile)

	// RESERVATIONS
	auth.GET("/reservations", reservationCtrl.GetAllReservations)
	auth.GET("/reservations/upcoming", reservationCtrl.GetUpcomingReservations)
	auth.GET("/reservations/count", reservationCtrl.CountReservations)
	auth.POST("/reservations", reservationCtrl.CreateReservation)
	auth.POST("/reservations/clean", reservationCtrl.CleanReservations)
	auth.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservationStatus)
	auth.DELETE("/reservations/:reservation_id", reservationCtrl.DeleteReservation)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/available", tableCtrl.FindAvailableTables)
	auth.GET("/tables/count", tableCtrl.CountTables)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	auth.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
	auth.PATCH("/tables/:table_id/position", tableCtrl.UpdateTablePosition)
	auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	// DASHBOARD
	auth.GET("/dashboard/stats", adminCtrl.GetDashboardStats)

	// USERS (super admin only)
	superAdmin := auth.Group("/users")
	superAdmin.Use(middlewares.RequireSuperAdmin())
	{
		superAdmin.GET("", userCtrl.GetAllUsers)
		superAdmin.GET("/count", userCtrl.CountUsers)
		superAdmin.POST("", userCtrl.CreateUser)
		superAdmin.PATCH("/:user_id", userCtrl.UpdateUser)
		superAdmin.DELETE("/:user_id", userCtrl.DeleteUser)
	}

	return r
}
