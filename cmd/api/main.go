package main

import (
	_ "github.com/joho/godotenv/autoload"
)

// @title mynotes API
// @version 1.0
// @description Personal notes with automatic labels.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	Execute()
}
