package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/config"
	"github.com/yeremiapane/restaurant-reservations/controllers"
	"github.com/yeremiapane/restaurant-reservations/hub"
	"github.com/yeremiapane/restaurant-reservations/middlewares"
	"github.com/yeremiapane/restaurant-reservations/models"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg config.Config, h *hub.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	rateLimiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(rateLimiter.RateLimit())
	r.Use(middlewares.LoggerMiddleware())

	staffCtrl := controllers.NewStaffController(db)
	tableCtrl := controllers.NewTableController(db, h)
	if cfg.OccupancyWindow > 0 {
		tableCtrl.ManualHold = cfg.OccupancyWindow
	}
	customerCtrl := controllers.NewCustomerController(db, h)
	bookingCtrl := controllers.NewBookingController(db, h)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/register", staffCtrl.Register)
	r.POST("/login", staffCtrl.Login)

	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/filter", tableCtrl.FindTablesByOccupancy)
	r.GET("/tables/:number", tableCtrl.GetTableByNumber)
	r.GET("/tables/:number/bookings", tableCtrl.GetTableBookings)

	r.GET("/customers", customerCtrl.GetAllCustomers)
	r.GET("/customers/:idcustomer", customerCtrl.GetCustomerByID)
	r.GET("/customers/:idcustomer/bookings", customerCtrl.GetCustomerBookings)

	r.GET("/bookings", bookingCtrl.GetAllBookings)
	r.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)

	// ----------------------------------------------------------------
	//      WRITE ROUTES (token required when AUTH_REQUIRED=true)
	// ----------------------------------------------------------------
	write := r.Group("/")
	write.Use(middlewares.OptionalAuth(cfg.AuthRequired))

	// TABLE (admin)
	tables := write.Group("/tables")
	tables.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		tables.POST("", tableCtrl.CreateTable)
		tables.PATCH("/:number", tableCtrl.UpdateTableSeats)
		tables.DELETE("/:number", tableCtrl.DeleteTable)
	}
	// occupancy is operational, staff may change it
	write.PATCH("/tables/:number/occupancy", middlewares.RequireRole(models.RoleAdmin, models.RoleStaff), tableCtrl.UpdateTableOccupancy)

	// CUSTOMERS
	customers := write.Group("/customers")
	customers.Use(middlewares.RequireRole(models.RoleAdmin, models.RoleStaff))
	{
		customers.POST("", customerCtrl.CreateCustomer)
		customers.PATCH("/:idcustomer", customerCtrl.UpdateCustomer)
		customers.PUT("/:idcustomer", customerCtrl.UpdateCustomer)
		customers.DELETE("/:idcustomer", customerCtrl.DeleteCustomer)
	}

	// BOOKINGS
	bookings := write.Group("/bookings")
	bookings.Use(middlewares.RequireRole(models.RoleAdmin, models.RoleStaff))
	{
		bookings.POST("", bookingCtrl.CreateBooking)
		bookings.PUT("/:booking_id", bookingCtrl.UpdateBooking)
		bookings.PATCH("/:booking_id", bookingCtrl.UpdateBooking)
		bookings.DELETE("/:booking_id", bookingCtrl.DeleteBooking)
	}

	// ADMIN DASHBOARD
	admin := write.Group("/admin")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", adminCtrl.GetDashboardStats)
		admin.GET("/upcoming", adminCtrl.GetUpcomingBookings)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.GET("/profile", staffCtrl.GetProfile)
	auth.POST("/logout", staffCtrl.Logout)

	events := r.Group("/ws")
	events.Use(middlewares.OptionalAuth(cfg.AuthRequired))
	events.GET("/events", controllers.EventsHandler(h))

	return r
}
