// @title BBBAB Chats
// @version 0.1
// @description Chat and message subsystem: chats, members, messages, reactions, attachments.

// @host localhost:8080
// @BasePath /api
// @query.collection.format multi
// @schemes http

package main

import (
	"log"

	_ "tush00nka/bbbab_chats/docs"
	"tush00nka/bbbab_chats/internal/app"
	"tush00nka/bbbab_chats/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	app.Run(cfg)
}
