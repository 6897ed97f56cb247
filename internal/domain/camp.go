package domain

// Camp is one bounded period of the schedule. The registry file on the
// base branch lists every camp; File names the record file that holds
// the camp's events.
type Camp struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	Location        string `yaml:"location" json:"location"`
	StartDate       string `yaml:"start_date" json:"start_date"`
	EndDate         string `yaml:"end_date" json:"end_date"`
	OpensForEditing string `yaml:"opens_for_editing" json:"opens_for_editing"`
	Archived        bool   `yaml:"archived" json:"archived"`
	QA              bool   `yaml:"qa,omitempty" json:"qa,omitempty"`
	File            string `yaml:"file,omitempty" json:"-"`
}

// ContainsDate reports whether date falls inside [StartDate, EndDate].
// Dates are fixed-width YYYY-MM-DD strings, so lexicographic order
// equals calendar order.
func (c Camp) ContainsDate(date string) bool {
	return c.StartDate <= date && date <= c.EndDate
}
