// One-shot script that creates every registry tag as a CRM label.
// Run it once against a fresh CRM account so staff can filter on
// tags before the first lead ever carries them.
package main

import (
	"context"

	"autoassist_backend/internal/crm"
	"autoassist_backend/internal/tagging"
	"autoassist_backend/platform/config"
	"autoassist_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	client := crm.NewClient(cfg, log)
	if client == nil {
		log.Error("CRM is not configured, nothing to provision")
		panic("CRM is not configured")
	}

	ctx := context.Background()
	entries := tagging.AllEntries()

	var failed int
	for _, entry := range entries {
		err := client.CreateLabel(ctx, crm.Label{
			Title:         entry.Title,
			Description:   entry.Description,
			Color:         entry.Color,
			ShowOnSidebar: entry.ShowOnSidebar,
		})
		if err != nil {
			log.Error("label provisioning failed", "label", entry.Title, "error", err)
			failed++
			continue
		}
		log.Info("label provisioned", "label", entry.Title)
	}

	log.Info("label provisioning complete", "total", len(entries), "failed", failed)
	if failed > 0 {
		panic("some labels failed, rerun after fixing CRM access")
	}
}
