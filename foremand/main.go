package main

import (
	"log"

	"github.com/foremanhq/foreman/foremand/core"
	"github.com/foremanhq/foreman/foremand/server"
)

func main() {
	c, err := core.New()
	if err != nil {
		log.Fatal("[Foreman] Failed to initialize: ", err)
	}
	defer c.Close()

	serverInstance := server.New(c)
	if err := serverInstance.Start(); err != nil {
		log.Fatal("[Foreman] Failed to start server: ", err)
	}
}
