package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/lalomorales22/ditto/app/clients"
	"github.com/lalomorales22/ditto/app/configs"
	"github.com/lalomorales22/ditto/app/models"
	"github.com/lalomorales22/ditto/app/runtime"
	"github.com/lalomorales22/ditto/app/storage"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := configs.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("❌ Error loading configs: %v", err)
	}

	db, err := storage.NewSQLiteStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("❌ Error opening storage: %v", err)
	}
	defer db.Close()

	model := models.NewLLMClient(models.Options{
		Model:       cfg.Model.Name,
		BaseURL:     cfg.Model.BaseURL,
		APIKey:      cfg.Model.APIKey,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
		ToolCalling: cfg.Model.SupportsTools(),
	})

	rt := runtime.NewRuntime(model, db, runtime.Config{
		LogDir:       cfg.Runtime.LogDir,
		RoundDelay:   cfg.Runtime.RoundDelay(),
		RetryBackoff: cfg.Runtime.RetryBackoff(),
		RoundTimeout: cfg.Runtime.RoundTimeout(),
	})

	registry := clients.NewRegistry()
	defer registry.CloseAll()
	for _, clientCfg := range cfg.Clients {
		client, err := clients.CreateClient(clientCfg)
		if err != nil {
			log.Printf("⚠️ Skipping client %s: %v", clientCfg.Type, err)
			continue
		}
		if err = registry.Register(client, rt); err != nil {
			log.Printf("⚠️ Error registering client %s: %v", clientCfg.Type, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	projectID, err := db.CreateProject(ctx, storage.Project{
		Name:        cfg.Project.Name,
		Description: cfg.Project.Description,
	})
	if err != nil {
		log.Fatalf("❌ Error creating project: %v", err)
	}

	root := filepath.Join(cfg.Project.Root, strconv.FormatInt(projectID, 10))
	run := rt.StartBuild(ctx, runtime.BuildTask{
		ProjectID: projectID,
		Input:     cfg.Project.Input,
		Root:      root,
		MaxRounds: cfg.Runtime.MaxRounds,
	})

	pollProgress(run)

	progress := run.Snapshot()
	log.Printf("🏁 Run finished with status %q after %d round(s)", progress.Status, progress.Round)
	if err = run.Err(); err != nil {
		log.Printf("❌ Run error: %v", err)
	}

	versions, err := db.VersionsByProject(context.Background(), projectID)
	if err != nil {
		log.Printf("⚠️ Error listing versions: %v", err)
		return
	}
	for _, v := range versions {
		log.Printf("📦 Version %d: %s", v.Number, v.Changes)
	}
}

// pollProgress mirrors what the web layer's progress page does: read the
// run handle every two seconds and surface narrative growth.
func pollProgress(run *runtime.Run) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	printed := 0
	flush := func() {
		progress := run.Snapshot()
		if len(progress.Narrative) > printed {
			fmt.Print(progress.Narrative[printed:])
			printed = len(progress.Narrative)
		}
	}

	for {
		select {
		case <-run.Done():
			flush()
			fmt.Println()
			return
		case <-ticker.C:
			flush()
		}
	}
}
