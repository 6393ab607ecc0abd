package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"agribot/config"
	"agribot/database"
	"agribot/pipeline"
	"agribot/processing"
)

// Консольный загрузчик: прогоняет тот же пайплайн по пяти файлам на диске.
func main() {
	var (
		stockPath       = flag.String("stock", "", "path to the available stock workbook")
		remainsPath     = flag.String("remains", "", "path to the remains workbook")
		submissionsPath = flag.String("submissions", "", "path to the submissions workbook")
		paymentsPath    = flag.String("payments", "", "path to the payments workbook")
		movementsPath   = flag.String("moved", "", "path to the movement log workbook")
		dbPath          = flag.String("db", "agribot.db", "path to the SQLite database")
		allowListPath   = flag.String("allowlists", "", "path to the remains allow lists JSON")
		chunkSize       = flag.Int("chunk-size", database.DefaultChunkSize, "insert chunk size")
	)
	flag.Parse()

	for name, path := range map[string]*string{
		"stock": stockPath, "remains": remainsPath, "submissions": submissionsPath,
		"payments": paymentsPath, "moved": movementsPath,
	} {
		if *path == "" {
			log.Fatalf("flag -%s is required", name)
		}
	}

	var filter processing.RemainsFilter
	if *allowListPath != "" {
		lists, err := config.LoadAllowLists(*allowListPath)
		if err != nil {
			log.Fatalf("failed to load allow lists: %v", err)
		}
		filter = processing.RemainsFilter{
			LineOfBusiness: lists.LineOfBusiness,
			Warehouse:      lists.Warehouse,
		}
	}

	db, err := database.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	p := pipeline.New(db, pipeline.Options{
		ChunkSize: *chunkSize,
		Filter:    filter,
		Logger:    logger,
	})

	files := pipeline.Files{
		Stock:       mustRead(*stockPath),
		Remains:     mustRead(*remainsPath),
		Submissions: mustRead(*submissionsPath),
		Payments:    mustRead(*paymentsPath),
		Movements:   mustRead(*movementsPath),
	}

	summary, err := p.Run(context.Background(), files)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	fmt.Printf("catalog: %d entries\n", summary.CatalogLoaded)
	for _, doc := range []string{"stock", "remains", "submissions", "payments", "movement-log"} {
		r := summary.Documents[doc]
		if r.Err != nil {
			fmt.Printf("%-13s FAILED: %v\n", doc, r.Err)
			continue
		}
		fmt.Printf("%-13s normalized=%d loaded=%d unmatched=%d\n", doc, r.Normalized, r.Loaded, len(r.Unmatched))
	}

	if !summary.Ok() {
		os.Exit(1)
	}
}

func mustRead(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}
