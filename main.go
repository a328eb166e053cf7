package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/yizeng/gab/gin/gorm/housing-events/cmd/app"
)

// @title        Housing Events API
// @version      1.0
// @description  Event listing and registration for the housing community, plus the admin dashboard API.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token returned by POST /admin/login
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
