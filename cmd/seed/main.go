package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tkaraca/shopapp-backend/config"
	"github.com/tkaraca/shopapp-backend/internal/app/model"
	"github.com/tkaraca/shopapp-backend/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Imports catalog products from a spreadsheet with the columns:
// Name | Description | Price | Category | Stock | Image URL
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

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(db.GetDB(), filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := db.GetDB().CreateInBatches(products, 500).Error; err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(gdb *gorm.DB, filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	categoryIDs := make(map[string]uint)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 4 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		priceStr := strings.TrimSpace(row[2])
		categoryName := strings.TrimSpace(row[3])

		if name == "" || priceStr == "" || categoryName == "" {
			skippedCount++
			continue
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			fmt.Printf("Row %d: invalid price %q, skipping\n", i+1, priceStr)
			skippedCount++
			continue
		}

		stock := 0
		if len(row) > 4 {
			if n, err := strconv.Atoi(strings.TrimSpace(row[4])); err == nil {
				stock = n
			}
		}

		imageURL := ""
		if len(row) > 5 {
			imageURL = strings.TrimSpace(row[5])
		}

		categoryID, err := resolveCategory(gdb, categoryIDs, categoryName)
		if err != nil {
			return nil, err
		}

		products = append(products, model.Product{
			Name:          name,
			Description:   description,
			Price:         price.Round(2),
			CategoryID:    categoryID,
			StockQuantity: stock,
			ImageURL:      imageURL,
			IsActive:      true,
		})
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return products, nil
}

// resolveCategory finds or creates the category, caching IDs per run
func resolveCategory(gdb *gorm.DB, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	var category model.Category
	err := gdb.Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = model.Category{Name: name}
		err = gdb.Create(&category).Error
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve category %q: %w", name, err)
	}

	cache[name] = category.ID
	return category.ID, nil
}
