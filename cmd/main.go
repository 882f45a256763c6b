package main

import (
	"context"
	"log"
	"netflix-loader/config"
	"netflix-loader/dataset"
	"netflix-loader/loader"
	"netflix-loader/storage"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Netflix loader...")

	cfg := config.Load()

	fetcher := dataset.NewKaggleFetcher(cfg.APIURL, cfg.CacheDir, dataset.Credentials{
		Username: cfg.KaggleUsername,
		Key:      cfg.KaggleKey,
	})

	sqliteStorage := storage.NewSQLiteStorage(cfg.DataPath)
	defer sqliteStorage.Close()

	job := loader.NewLoadJob(fetcher, sqliteStorage, cfg)

	result, err := job.Run(context.Background())
	if err != nil {
		sqliteStorage.Close()
		log.Fatalf("Error running job: %v", err)
	}

	if err := loader.PrintSummary(os.Stdout, result); err != nil {
		log.Printf("Error printing summary: %v", err)
	}
}
