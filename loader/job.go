package loader

import (
	"context"
	"fmt"
	"io"
	"log"
	"netflix-loader/config"
	"netflix-loader/dataset"
	"netflix-loader/notifier"
	"netflix-loader/storage"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// LoadJob fetches the dataset, locates the CSV and loads it into a freshly
// recreated netflix_titles table.
type LoadJob struct {
	fetcher       dataset.Fetcher
	storage       *storage.SQLiteStorage
	datasetID     string
	csvFileName   string
	progressOut   io.Writer
	emailNotifier *notifier.EmailNotifier
}

// NewLoadJob creates a new load job
func NewLoadJob(fetcher dataset.Fetcher, storage *storage.SQLiteStorage, cfg *config.Config) *LoadJob {
	job := &LoadJob{
		fetcher:     fetcher,
		storage:     storage,
		datasetID:   cfg.DatasetID,
		csvFileName: cfg.CSVFileName,
	}

	if cfg.ShowProgress {
		job.progressOut = os.Stderr
	}

	emailConfig := notifier.GetEmailConfigFromEnv()
	if emailConfig.Enabled() {
		emailNotifier, err := notifier.NewEmailNotifier(emailConfig)
		if err != nil {
			log.Printf("Failed to create email notifier: %v", err)
		} else {
			job.emailNotifier = emailNotifier
			log.Printf("Load summary will be sent to: %s", emailConfig.RecipientEmail)
		}
	}

	return job
}

// Name returns the name of the job
func (j *LoadJob) Name() string {
	return "netflix_loader"
}

// Run executes the pipeline. The table is only touched once the CSV has been
// found and parsed, so a missing file leaves no database behind.
func (j *LoadJob) Run(ctx context.Context) (storage.LoadResult, error) {
	result := storage.LoadResult{
		DatasetID: j.datasetID,
		DBPath:    j.storage.Path(),
	}
	startTime := time.Now()

	log.Printf("Fetching dataset %s", j.datasetID)
	dir, err := j.fetcher.Download(j.datasetID)
	if err != nil {
		return result, fmt.Errorf("failed to download dataset: %w", err)
	}

	csvPath, err := dataset.Locate(dir, j.csvFileName)
	if err != nil {
		return result, err
	}
	result.SourceFile = csvPath

	titles, err := ReadTitles(csvPath)
	if err != nil {
		return result, fmt.Errorf("failed to parse %s: %w", j.csvFileName, err)
	}
	result.Read = len(titles)
	log.Printf("Parsed %d rows from %s", len(titles), csvPath)

	if err := j.storage.Initialize(); err != nil {
		return result, err
	}

	var progress storage.Progress
	if j.progressOut != nil {
		bar := progressbar.NewOptions(len(titles),
			progressbar.OptionSetWriter(j.progressOut),
			progressbar.OptionSetDescription("Inserting titles"),
			progressbar.OptionSetWidth(50),
			progressbar.OptionShowCount(),
		)
		defer func() {
			_ = bar.Finish()
			fmt.Fprintln(j.progressOut)
		}()
		progress = bar
	}

	inserted, err := j.storage.InsertTitles(ctx, titles, progress)
	if err != nil {
		return result, err
	}
	result.Inserted = inserted

	stats, err := j.storage.GetStats(ctx)
	if err != nil {
		log.Printf("Error getting database stats: %v", err)
	} else {
		result.Stats = stats
	}

	log.Printf("Completed job %s in %s: %d read, %d inserted, %d skipped",
		j.Name(), time.Since(startTime), result.Read, result.Inserted, result.Skipped())

	if j.emailNotifier != nil {
		if err := j.emailNotifier.NotifyLoadComplete(result); err != nil {
			log.Printf("Failed to send email notification: %v", err)
		}
	}

	return result, nil
}
