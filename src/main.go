package main

import (
	"huddle/src/boot"
	"huddle/src/controllers"
	"huddle/src/middlewares"
	"huddle/src/types"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const apiPrefix string = "/api/v1"

var postVisibilityValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch types.PostVisibility(value) {
	case types.POST_VISIBILITY_DEFAULT, types.POST_VISIBILITY_PUBLIC:
		return true
	}
	return false
}

func main() {
	godotenv.Load()

	boot.InitDb()
	boot.InitBroker()
	boot.InitScheduler()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("WEB_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("postvisibility", postVisibilityValidatorFunc)
	}

	api := r.Group(apiPrefix)
	api.Use(middlewares.AuthMiddleware)

	org := api.Group("/orgs/:org")
	org.Use(middlewares.OrgMemberMiddleware)
	{
		org.GET("/notifications", controllers.ListNotifications)
		org.POST("/notifications/read", controllers.MarkAllNotificationsRead)
		org.POST("/notifications/:id/read", controllers.MarkNotificationRead)
		org.DELETE("/notifications/:id/read", controllers.MarkNotificationUnread)
		org.POST("/notifications/:id/archive", controllers.ArchiveNotification)
		org.DELETE("/notifications/:id/archive", controllers.UnarchiveNotification)
		org.DELETE("/notifications/:id", controllers.DeleteNotification)

		org.POST("/posts", controllers.CreatePost)
		org.PATCH("/posts/:id", controllers.UpdatePost)
		org.POST("/posts/:id/publish", controllers.PublishPost)
		org.DELETE("/posts/:id", controllers.DeletePost)

		org.POST("/comments", controllers.CreateComment)
		org.PATCH("/comments/:id", controllers.UpdateComment)
		org.DELETE("/comments/:id", controllers.DeleteComment)

		org.POST("/notes", controllers.CreateNote)
		org.PATCH("/notes/:id", controllers.UpdateNote)
		org.DELETE("/notes/:id", controllers.DeleteNote)
		org.POST("/notes/:id/permissions", controllers.ShareNote)
		org.DELETE("/permissions/:id", controllers.RevokeNotePermission)

		org.POST("/projects/:id/members", controllers.AddProjectMember)
		org.DELETE("/project-memberships/:id", controllers.RemoveProjectMember)
		org.POST("/projects/:id/subscription", controllers.SubscribeProject)
		org.DELETE("/projects/:id/subscription", controllers.UnsubscribeProject)
		org.POST("/projects/:id/pins", controllers.PinSubject)
		org.DELETE("/pins/:id", controllers.UnpinSubject)

		org.POST("/reactions", controllers.CreateReaction)
		org.DELETE("/reactions/:id", controllers.DeleteReaction)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Listening on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("error starting server: %s", err.Error())
	}
}
