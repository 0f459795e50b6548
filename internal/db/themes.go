package db

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"gorm.io/gorm"

	"spot-the-bot/internal/game"
)

type themeRecord struct {
	Theme    string
	Question string
}

// LoadThemes reads theme,question rows from a CSV and upserts them. Row
// order within a theme becomes question order.
func LoadThemes(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, errors.New("db connection is nil")
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	records, err := readThemes(file)
	if err != nil {
		return 0, err
	}

	positions := map[string]int{}
	inserted := 0
	err = conn.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			theme := Theme{Name: record.Theme}
			if err := tx.FirstOrCreate(&theme, Theme{Name: record.Theme}).Error; err != nil {
				return err
			}
			question := ThemeQuestion{
				ThemeID:  theme.ID,
				Position: positions[record.Theme],
				Text:     record.Question,
			}
			positions[record.Theme]++
			if err := tx.Where(ThemeQuestion{ThemeID: theme.ID, Text: record.Question}).
				FirstOrCreate(&question).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	return inserted, err
}

func readThemes(r io.Reader) ([]themeRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []themeRecord
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		theme := strings.TrimSpace(row[0])
		question := strings.TrimSpace(row[1])
		if theme == "" || question == "" {
			continue
		}
		records = append(records, themeRecord{Theme: theme, Question: question})
	}
	return records, nil
}

// ThemeCatalog serves themes from postgres, falling back to the built-in
// catalog while the table is empty.
type ThemeCatalog struct {
	conn     *gorm.DB
	fallback game.Catalog
}

func NewThemeCatalog(conn *gorm.DB) *ThemeCatalog {
	return &ThemeCatalog{conn: conn, fallback: game.DefaultCatalog()}
}

func (c *ThemeCatalog) Themes() ([]game.Theme, error) {
	var rows []Theme
	err := c.conn.Preload("Questions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).Order("name ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return c.fallback.Themes()
	}
	themes := make([]game.Theme, 0, len(rows))
	for _, row := range rows {
		theme := game.Theme{Name: row.Name}
		for _, question := range row.Questions {
			theme.Questions = append(theme.Questions, question.Text)
		}
		themes = append(themes, theme)
	}
	return themes, nil
}
