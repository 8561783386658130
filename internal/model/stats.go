package model

// Stats aggregates completion counts.
type Stats struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Pending   int `json:"pending" yaml:"pending"`
}

// Summarize counts todos by completion state.
func Summarize(todos []Todo) Stats {
	s := Stats{Total: len(todos)}
	for _, t := range todos {
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
	}
	return s
}
