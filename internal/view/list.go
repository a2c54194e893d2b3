package view

// Row pairs an item with the badge of its status.
type Row[T any] struct {
	Item     T          `json:"item"`
	Badge    Badge      `json:"badge"`
	Category *Badge     `json:"category,omitempty"`
	Files    []FileLink `json:"files,omitempty"`
}

// FileLink is an upload stored upstream. Path is what the backend returned, URL where the browser fetches it.
type FileLink struct {
	Field string `json:"field"`
	Path  string `json:"path"`
	URL   string `json:"url"`
}

// List is what a portal list page renders. Error is the inline banner text of a failed load,
// EmptyMessage is shown when nothing survives the filters.
type List[T any] struct {
	Rows         []Row[T]       `json:"rows"`
	Total        int            `json:"total"`
	Counts       map[string]int `json:"counts"`
	Empty        bool           `json:"empty"`
	EmptyMessage string         `json:"empty_message,omitempty"`
	Error        string         `json:"error,omitempty"`
	Summary      interface{}    `json:"summary,omitempty"`
	Page         *Page          `json:"page,omitempty"`
}

// Page carries upstream pagination through to the page.
type Page struct {
	Current int  `json:"current_page"`
	Last    int  `json:"last_page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

func NewPage(current, last, perPage, total int) *Page {
	return &Page{
		Current: current,
		Last:    last,
		PerPage: perPage,
		Total:   total,
		HasPrev: current > 1,
		HasNext: current < last,
	}
}

// Failed is the list shown when the load itself failed.
func Failed[T any](message string) List[T] {
	return List[T]{Rows: []Row[T]{}, Counts: map[string]int{}, Error: message}
}
