package entities

import (
	"time"
)

// LiteraryGenre is reference data: the application only reads it.
type LiteraryGenre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (LiteraryGenre) TableName() string {
	return "genre"
}

func (g LiteraryGenre) String() string {
	return g.Name
}

type Author struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"index;size:255;not null" json:"name"`
	Phone     string         `gorm:"size:9" json:"phone,omitempty"`
	BirthDate *time.Time     `gorm:"type:date" json:"birth_date,omitempty"`
	GenreID   *uint          `gorm:"index" json:"genre_id,omitempty"`
	Genre     *LiteraryGenre `gorm:"foreignKey:GenreID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"genre,omitempty"`
}

func (Author) TableName() string {
	return "author"
}

// GenreName returns the name of the referenced genre, or "" when none is set.
func (a Author) GenreName() string {
	if a.Genre == nil {
		return ""
	}
	return a.Genre.Name
}

// BirthDateString formats the birth date for date inputs and tables.
func (a Author) BirthDateString() string {
	if a.BirthDate == nil {
		return ""
	}
	return a.BirthDate.Format("2006-01-02")
}

// GenreStat is the number of authors referencing one genre.
type GenreStat struct {
	GenreID     uint   `json:"genre_id"`
	GenreName   string `json:"genre_name"`
	AuthorCount int64  `json:"author_count"`
}
