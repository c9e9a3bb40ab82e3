package domain

type QuestionType string

const (
	QuestionSelect      QuestionType = "select"
	QuestionText        QuestionType = "text"
	QuestionMultiSelect QuestionType = "multiselect"
)

type Question struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

// Questionnaire is an optional category-scoped form schema used to collect
// extra context before generating a guide.
type Questionnaire struct {
	Category            string     `json:"category"`
	Description         string     `json:"description"`
	Questions           []Question `json:"questions"`
	AvailableCategories []string   `json:"availableCategories"`
}
