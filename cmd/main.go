// Package main is the entry point for the allocation-service application.
//
// @title           Allocation Service API
// @version         1.0.0
// @description     API for distributing purchase-order units across store locations.
//
//	This service splits each line's shipped units into per-location quantities using
//	a pack-based ratio procedure, with the office carve-out and warehouse absorption.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/allocation-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @tag.name        Allocations
// @tag.description Allocation operations and persisted allocation records
//
// @tag.name        Profile
// @tag.description Allocation profile configuration
//
// @tag.name        Auth
// @tag.description Authentication and authorization endpoints
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	_ "github.com/guttosm/allocation-service/docs" // swagger docs

	"github.com/guttosm/allocation-service/config"
	"github.com/guttosm/allocation-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	router := app.InitializeApp(cfg)
	server := app.NewServer(router, cfg.Server.Port)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
