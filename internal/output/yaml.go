package output

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"ticklist/internal/store"
	"ticklist/internal/task"
)

// YAMLFormatter formats output as YAML documents.
type YAMLFormatter struct{}

func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

func marshalYAML(v any) string {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "error: " + err.Error() + "\n"
	}
	enc.Close()
	return buf.String()
}

func (f *YAMLFormatter) FormatTask(t task.Task) string {
	return marshalYAML(toTaskDoc(t))
}

func (f *YAMLFormatter) FormatView(v store.View) string {
	return marshalYAML(toViewDoc(v))
}

func (f *YAMLFormatter) FormatError(err error) string {
	return marshalYAML(errorDoc{Error: err.Error()})
}

func (f *YAMLFormatter) FormatMessage(msg string) string {
	return marshalYAML(messageDoc{Message: msg})
}
