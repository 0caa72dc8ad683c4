package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"foodpanda-scraper/pkg/models"
)

// csvHeader flattens restaurant-level fields followed by item-level fields.
var csvHeader = []string{
	"name", "url", "address", "postal_code", "latitude", "longitude",
	"phone", "email", "cuisines", "image",
	"menu_category", "menu_item_name", "menu_item_description",
	"menu_item_price", "menu_item_image",
}

// Writer persists scrape results as a nested JSON array plus a flattened
// CSV. Both files are overwritten on every save.
type Writer struct {
	JSONPath string
	CSVPath  string
}

func NewWriter(jsonPath, csvPath string) *Writer {
	return &Writer{JSONPath: jsonPath, CSVPath: csvPath}
}

// Save implements scraper.Sink.
func (w *Writer) Save(records []models.RestaurantRecord) error {
	if err := WriteJSON(records, w.JSONPath); err != nil {
		return err
	}
	return WriteCSV(records, w.CSVPath)
}

// WriteJSON serializes the full nested structure losslessly.
func WriteJSON(records []models.RestaurantRecord, path string) error {
	if records == nil {
		records = []models.RestaurantRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteCSV flattens records to one row per (restaurant, menu item) pair.
// A restaurant with no menu items still emits one row with empty item
// fields so it never disappears from the flattened view.
func WriteCSV(records []models.RestaurantRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, rec := range records {
		for _, row := range flattenRecord(rec) {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

func flattenRecord(rec models.RestaurantRecord) [][]string {
	base := []string{
		rec.Name, rec.URL, rec.Address, rec.PostalCode,
		rec.Latitude, rec.Longitude, rec.Phone, rec.Email,
		strings.Join(rec.Cuisines, ", "), rec.Image,
	}

	var rows [][]string
	for _, cat := range rec.Menu {
		for _, item := range cat.Items {
			row := append(append([]string{}, base...),
				cat.Category,
				item.Name,
				item.Description,
				strconv.FormatFloat(item.Price, 'f', -1, 64),
				item.Image,
			)
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		rows = append(rows, append(append([]string{}, base...), "", "", "", "", ""))
	}
	return rows
}
