package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ironvale/inventory-backend/internal/app"
	"github.com/ironvale/inventory-backend/internal/importer"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Println("usage: importexcel <workbook.xlsx>")
		os.Exit(2)
	}
	workbook := flag.Arg(0)

	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	im := importer.New(application.DB, application.Repos, application.Log)
	report, err := im.ImportWorkbook(ctx, workbook)
	if err != nil {
		fmt.Printf("import failed: %v\n", err)
		os.Exit(1)
	}

	application.Services.Dashboard.Invalidate(ctx)
	for sheet, rows := range report.Sheets {
		fmt.Printf("%s: %d rows\n", sheet, rows)
	}
}
