package app

// AudioRecord is the metadata row describing one uploaded recording. The
// FilePath field holds the generated blob name only; the HTTP layer rewrites
// it to a servable URL when listing.
type AudioRecord struct {
	ID        string  `db:"id" json:"id"`
	Member    string  `db:"member" json:"member"`
	Day       int     `db:"day" json:"day"`
	Month     int     `db:"month" json:"month"`
	Year      int     `db:"year" json:"year"`
	FilePath  string  `db:"file_path" json:"filePath"`
	Timestamp int64   `db:"timestamp" json:"timestamp"` // milliseconds since epoch
	Duration  float64 `db:"duration" json:"duration"`   // seconds, client-supplied
	Count     int     `db:"count" json:"count"`         // play counter, starts at 1
}

// Settings is the single fixed-identity configuration record (row id 1).
// Saves fully overwrite the row; there is no merge.
type Settings struct {
	GlobalBookTitle string   `json:"globalBookTitle"`
	Members         []string `json:"members"`
	LastLoginMode   string   `json:"lastLoginMode"`
}

// DefaultSettings returns the value set used before any save has happened.
func DefaultSettings() Settings {
	return Settings{Members: []string{}, LastLoginMode: "lectura"}
}

// DailyReading is the per-date reading note. At most one record exists per
// calendar date; saves are insert-or-replace.
type DailyReading struct {
	BookTitle string `db:"book_title" json:"bookTitle"`
	StartDate string `db:"start_date" json:"startDate"`
	EndDate   string `db:"end_date" json:"endDate"`
}
