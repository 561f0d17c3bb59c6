package result

// Severity grades a validation warning.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Warning is an advisory finding about the model. Warnings never block an
// operation; they are returned as data.
type Warning struct {
	Type       Severity `json:"type"`
	Message    string   `json:"message"`
	ElementID  string   `json:"elementId,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Counts tallies warnings per severity.
type Counts struct {
	Info    int `json:"info"`
	Warning int `json:"warning"`
	Error   int `json:"error"`
}

// Count tallies ws by severity.
func Count(ws []Warning) Counts {
	var c Counts
	for _, w := range ws {
		switch w.Type {
		case SeverityInfo:
			c.Info++
		case SeverityWarning:
			c.Warning++
		case SeverityError:
			c.Error++
		}
	}
	return c
}

// HasErrors reports whether any warning has error severity.
func HasErrors(ws []Warning) bool {
	return Count(ws).Error > 0
}

// ConvertResult is the outcome of rendering a model into one or more formats.
type ConvertResult struct {
	Success  bool              `json:"success"`
	Files    map[string][]byte `json:"-"` // filename -> content
	Warnings []Warning         `json:"warnings,omitempty"`
	Errors   []string          `json:"errors,omitempty"`
}
