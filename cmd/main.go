package main

import (
	"github.com/gin-gonic/gin"

	"github.com/samidafali/education-backend/internal/app"
	"github.com/samidafali/education-backend/internal/config"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	cfg := config.MustLoad()
	app.Run(cfg)
}
