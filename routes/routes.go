package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yxchen/word-quiz-backend/controllers"
	"github.com/yxchen/word-quiz-backend/middleware"
	"github.com/yxchen/word-quiz-backend/services"
)

func SetupRouter(r *gin.Engine, db *gorm.DB, log *logrus.Logger) *gin.Engine {
	r.Use(middleware.RequestLogger(log))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	gemini := services.NewGeminiService(log)
	wordSvc := services.NewWordService(db, gemini, log)
	distractorSvc := services.NewDistractorService(gemini, log)
	quizSvc := services.NewQuizService(db, distractorSvc, log)

	wordCtl := controllers.NewWordController(wordSvc)
	quizCtl := controllers.NewQuizController(quizSvc)

	api := r.Group("/api")

	words := api.Group("/words")
	{
		words.POST("", wordCtl.AddWord)
		words.GET("", wordCtl.ListWords)
		words.GET("/stats", wordCtl.GetWordStats)
		words.GET("/:id", wordCtl.GetWord)
		words.PUT("/:id", wordCtl.UpdateWord)
		words.DELETE("/:id", wordCtl.DeleteWord)
	}

	quiz := api.Group("/quiz")
	{
		quiz.POST("/start", quizCtl.StartQuiz)
		quiz.POST("/submit/phase1", quizCtl.SubmitPhase1Answer)
		quiz.POST("/submit/phase2", quizCtl.SubmitPhase2Answer)
		quiz.POST("/finish", quizCtl.FinishQuiz)
		quiz.GET("/history", quizCtl.GetHistory)
		quiz.GET("/:sessionId", quizCtl.GetQuizDetail)
	}

	return r
}
