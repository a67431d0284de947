package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/samidafali/education-backend/internal/delivery/http/controllers"
	authctl "github.com/samidafali/education-backend/internal/delivery/http/controllers/auth"
	"github.com/samidafali/education-backend/internal/delivery/http/controllers/course"
	"github.com/samidafali/education-backend/internal/delivery/http/controllers/message"
	"github.com/samidafali/education-backend/internal/delivery/http/controllers/middleware"
	"github.com/samidafali/education-backend/internal/delivery/http/controllers/payment"
	"github.com/samidafali/education-backend/internal/models"
	"github.com/samidafali/education-backend/internal/service"
	"github.com/samidafali/education-backend/pkg/logger"
)

func InitRoutes(l logger.Log, u service.Collection) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	r.Use(cors.New(config))

	statusController := controllers.NewStatusHandler()
	authController := authctl.NewAuthHandler(l, u.AuthService)
	authProvider := middleware.NewAuthMiddlewareProvider(l, u.AuthService)
	queryController := course.NewQueryHandler(l, u.AccessService)
	enrollController := course.NewEnrollHandler(l, u.EnrollmentService)
	checkoutController := course.NewCheckoutHandler(l, u.PaymentService)
	confirmController := payment.NewConfirmHandler(l, u.PaymentService)
	messageController := message.NewMessageHandler(l, u.MessagingService)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		v1.GET("/me", authProvider.AuthMiddleware, authController.Me)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", authController.Login)
			auth.POST("/register", authController.Register)
			auth.POST("/refresh", authController.Refresh)
		}

		payments := v1.Group("/payments")
		{
			// Confirmation callback; idempotent under gateway redelivery.
			payments.POST("/:intent_id/confirm", confirmController.Confirm)
		}

		courses := v1.Group("/courses", authProvider.AuthMiddleware)
		{
			courses.GET("/:course_id", queryController.CourseByID)
			courses.GET("/:course_id/videos", queryController.CourseVideos)

			client := courses.Group("", middleware.RequireRoles(models.ClientRole))
			{
				client.POST("/:course_id/enroll", enrollController.Enroll)
				client.POST("/:course_id/checkout", checkoutController.Checkout)
				client.GET("/enrollments", enrollController.EnrolledCourses)
			}
		}

		messages := v1.Group("/messages", authProvider.AuthMiddleware)
		{
			messages.POST("", middleware.RequireRoles(models.ClientRole), messageController.Send)
			messages.POST("/:message_id/reply", middleware.RequireRoles(models.TeacherRole), messageController.Reply)
			messages.GET("/inbox", middleware.RequireRoles(models.TeacherRole), messageController.Inbox)
			messages.GET("/:course_id/:peer_id", messageController.Conversation)
			messages.PATCH("/:message_id/read", messageController.MarkRead)
		}
	}
	return r
}
