package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mrjawadhere/Hackthon-Smit/controlers"
	"github.com/mrjawadhere/Hackthon-Smit/libs"
)

// Controllers groups everything the router wires up.
type Controllers struct {
	Users     *controlers.UserController
	Students  *controlers.StudentController
	Chat      *controlers.ChatController
	Analytics *controlers.AnalyticsController
}

func InitRoutes(router *gin.Engine, ctrl Controllers, tokens *libs.TokenService, apiKey string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://127.0.0.1:8080",
			"http://localhost:8080",
			"http://127.0.0.1:8081",
			"http://localhost:8081",
		},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-api-key"},
		AllowCredentials: true,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Campus Admin Backend is running!", "status": "success"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "campus-admin-backend"})
	})

	users := router.Group("/users")
	{
		users.POST("/register", ctrl.Users.Register)
		users.POST("/login", ctrl.Users.Login)
		users.POST("/reset-password", ctrl.Users.ResetPassword)
	}

	router.POST("/students/chat/:thread_id", ctrl.Chat.Chat)

	students := router.Group("/students")
	students.Use(libs.AuthMiddleware(tokens, apiKey))
	{
		students.GET("", ctrl.Students.List)
		students.GET("/:id", ctrl.Students.Get)
		students.POST("", ctrl.Students.Add)
		students.PATCH("/:id", ctrl.Students.Update)
		students.DELETE("/:id", ctrl.Students.Delete)
	}

	analytics := router.Group("/analytics")
	{
		analytics.GET("/total-students", ctrl.Analytics.TotalStudents)
		analytics.GET("/students-by-department", ctrl.Analytics.StudentsByDepartment)
		analytics.GET("/students/recent", ctrl.Analytics.RecentStudents)
		analytics.GET("/students/active_last_7_days", ctrl.Analytics.ActiveStudents)
	}
}
