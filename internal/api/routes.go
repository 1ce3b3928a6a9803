package api

import (
	"net/http"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	clientService service.ClientService,
	programService service.ProgramService,
	workoutService service.WorkoutService,
	catalogService service.CatalogService,
) {
	authHandler := NewAuthHandler(authService)
	clientHandler := NewClientHandler(clientService)
	programHandler := NewProgramHandler(programService)
	workoutHandler := NewWorkoutHandler(workoutService)
	exerciseHandler := NewExerciseHandler(catalogService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.GetMe)
		protected.DELETE("/me", authHandler.DeleteMe)
		protected.PUT("/auth/password", authHandler.UpdatePassword)

		// --- Exercise Catalog (shared, read-only) ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
		}

		// --- Program reads (trainer or assigned client, checked in handler) ---
		protected.GET("/programs/:programId", programHandler.GetProgram)

		// --- Trainer Specific Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			// Client roster
			trainerGroup.POST("/clients", clientHandler.AddClient)
			trainerGroup.GET("/clients", clientHandler.GetClients)
			trainerGroup.GET("/clients/:clientId", clientHandler.GetClient)
			trainerGroup.PUT("/clients/:clientId", clientHandler.UpdateClient)
			trainerGroup.GET("/clients/:clientId/progress-pics", clientHandler.GetProgressPics)

			// Program authoring
			trainerGroup.POST("/programs", programHandler.CreateProgram)
			trainerGroup.PUT("/programs/:programId", programHandler.UpdateProgram)

			// Standalone workouts and prescription bulk edits
			trainerGroup.POST("/workouts", workoutHandler.CreateWorkout)
			trainerGroup.PATCH("/prescriptions/week", workoutHandler.UpdateWeekPrescriptions)

			// Client history and progress
			trainerGroup.GET("/clients/:clientId/workouts", workoutHandler.GetClientWorkoutHistory)
			trainerGroup.GET("/clients/:clientId/progress/:exerciseId", workoutHandler.GetExerciseProgress)
		}

		// --- Client Specific Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.GET("/workouts", workoutHandler.GetMyWorkoutHistory)
			clientGroup.POST("/workouts/:workoutId/logs", workoutHandler.LogExercise)
			clientGroup.POST("/progress-pics/upload-url", clientHandler.RequestProgressPicUpload)
			clientGroup.POST("/progress-pics", clientHandler.AttachProgressPic)
		}
	}
}
