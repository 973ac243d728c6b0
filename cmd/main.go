package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yxchen/word-quiz-backend/config"
	"github.com/yxchen/word-quiz-backend/routes"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件")
	}

	config.InitDB()

	r := gin.Default()

	// CORS：默认放开所有来源，配置 FRONTEND_URL 时只允许该来源
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if origin := os.Getenv("FRONTEND_URL"); origin != "" && origin != "*" {
		corsCfg.AllowOrigins = []string{origin}
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	r = routes.SetupRouter(r, config.DB, log)

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Word quiz server is running")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Infof("Server running at Port:%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
