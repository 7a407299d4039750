package output

import (
	"encoding/json"

	"ticklist/internal/store"
	"ticklist/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) FormatTask(t task.Task) string {
	return marshalJSON(toTaskDoc(t))
}

func (f *JSONFormatter) FormatView(v store.View) string {
	return marshalJSON(toViewDoc(v))
}

type errorDoc struct {
	Error string `json:"error" yaml:"error"`
}

func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorDoc{Error: err.Error()})
}

type messageDoc struct {
	Message string `json:"message" yaml:"message"`
}

func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageDoc{Message: msg})
}
