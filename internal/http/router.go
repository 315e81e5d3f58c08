package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Stores, cfg.Version)
	router.GET("/health", healthController.Status)
	router.GET("/ping", healthController.Ping)

	dictionaryController := NewDictionaryController(cfg.Stores, cfg.DefaultLimit, cfg.MaxLimit)
	quizController := NewQuizController(cfg.Stores, cfg.Auditor)

	api := router.Group("/api")
	{
		api.GET("/health", healthController.Ping)

		api.GET("/dictionary/search", dictionaryController.Search)
		api.GET("/dictionary/count", dictionaryController.Count)
		api.GET("/dictionary/entry/:simplified", dictionaryController.Entry)

		api.POST("/quiz/questions", quizController.Save)
		api.GET("/quiz/questions", quizController.List)
	}

	return router
}
