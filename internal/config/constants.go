package config

const (
	// DefaultDatabasePath is the default path for the directory database
	DefaultDatabasePath = "./author-directory.db"

	// DateLayout is the format used for birth dates in forms and JSON
	DateLayout = "2006-01-02"
)
