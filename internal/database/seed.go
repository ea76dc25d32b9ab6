package database

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/udb/authordirectory/internal/entities"
)

var DefaultGenres = []string{
	"Novel",
	"Short Story",
	"Poetry",
	"Drama",
	"Essay",
	"Chronicle",
	"Testimonial",
}

// GenreSeed is the layout of a GENRES_SEED_FILE:
//
//	genres:
//	  - Novel
//	  - Poetry
type GenreSeed struct {
	Genres []string `yaml:"genres"`
}

// LoadGenreSeed reads genre names from a YAML file. An empty path yields
// DefaultGenres.
func LoadGenreSeed(path string) ([]string, error) {
	if path == "" {
		return DefaultGenres, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genre seed file: %w", err)
	}

	var seed GenreSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse genre seed file %s: %w", path, err)
	}

	names := make([]string, 0, len(seed.Genres))
	seen := make(map[string]bool)
	for _, name := range seed.Genres {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("genre seed file %s lists no genres", path)
	}
	return names, nil
}

// SeedGenres inserts every name that is not yet present. Returns the number
// of genres created.
func (d *Database) SeedGenres(names []string) (int, error) {
	created := 0
	err := d.DB.Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			var existing entities.LiteraryGenre
			result := tx.Where("name = ?", name).Limit(1).Find(&existing)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				continue
			}
			genre := entities.LiteraryGenre{Name: name}
			if err := tx.Create(&genre).Error; err != nil {
				return fmt.Errorf("failed to create genre %s: %w", name, err)
			}
			d.logger.Info("created genre", zap.String("name", name))
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// SeedGenresIfEmpty seeds only a brand-new genre table, so genres managed
// outside the application are never recreated.
func (d *Database) SeedGenresIfEmpty(names []string) (int, error) {
	var count int64
	if err := d.DB.Model(&entities.LiteraryGenre{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	return d.SeedGenres(names)
}
