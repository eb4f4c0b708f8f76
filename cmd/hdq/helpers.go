package main

import (
	"log"

	"github.com/calebmorse/healthdesk/internal/api"
	"github.com/calebmorse/healthdesk/internal/config"
)

// newClient builds an API client from config + environment.
func newClient() *api.Client {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return api.NewClient(cfg.Service.BaseURL, cfg.RequestTimeout())
}
