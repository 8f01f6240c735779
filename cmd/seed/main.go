package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/rkarim/cartify-backend/config"
	"github.com/rkarim/cartify-backend/internal/app/model"
	"github.com/rkarim/cartify-backend/internal/app/repository"
	"github.com/rkarim/cartify-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports a product catalog from an XLSX file.
// Expected columns: name, price, description, category, stock, image_url

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d (skipped %d invalid rows)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 1000
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seenNames := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		// First row is the header
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 2 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		priceStr := strings.TrimSpace(row[1])

		if len(name) < 2 || priceStr == "" {
			skipped++
			continue
		}

		// Duplicate names in the sheet collapse to the first row
		if seenNames[name] {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}

		product := model.Product{
			Name:        name,
			Price:       price,
			IsAvailable: true,
		}

		if len(row) > 2 {
			product.Description = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			product.Category = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			if stock, err := strconv.Atoi(strings.TrimSpace(row[4])); err == nil && stock >= 0 {
				product.Stock = stock
			}
		}
		if len(row) > 5 {
			product.ImageURL = strings.TrimSpace(row[5])
		}

		seenNames[name] = true
		products = append(products, product)
	}

	if len(products) == 0 {
		return nil, skipped, fmt.Errorf("no valid product rows found")
	}

	return products, skipped, nil
}
