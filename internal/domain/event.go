package domain

// Event is one scheduled activity inside a camp's record file.
//
// ID is derived once at submission time and never recomputed. Owner is
// kept for contact purposes only and is never rendered publicly, hence
// the json:"-".
type Event struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Date        string     `yaml:"date" json:"date"`
	Start       string     `yaml:"start" json:"start"`
	End         string     `yaml:"end" json:"end"`
	Location    string     `yaml:"location" json:"location"`
	Responsible string     `yaml:"responsible" json:"responsible"`
	Description string     `yaml:"description" json:"description"`
	Link        string     `yaml:"link" json:"link"`
	Owner       EventOwner `yaml:"owner" json:"-"`
	Meta        EventMeta  `yaml:"meta" json:"meta"`
}

type EventOwner struct {
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email" json:"email"`
}

// EventMeta carries minute-precision timestamps (YYYY-MM-DDTHH:MM).
// CreatedAt is written once; UpdatedAt is refreshed on every edit.
type EventMeta struct {
	CreatedAt string `yaml:"created_at" json:"created_at"`
	UpdatedAt string `yaml:"updated_at" json:"updated_at"`
}
