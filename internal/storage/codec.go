package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"ticklist/internal/task"
)

// DefaultKey is the storage key holding the serialized task list.
const DefaultKey = "todoTasks"

const tasksSchemaURL = "tasks.schema.json"

const tasksSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "priority", "completed"],
    "properties": {
      "id": {"type": "integer"},
      "text": {"type": "string", "minLength": 1},
      "priority": {"enum": ["low", "medium", "high"]},
      "dueDate": {"type": "string", "pattern": "^$|^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
      "completed": {"type": "boolean"}
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString(tasksSchemaURL, tasksSchema)

// SchemaError lists every place the stored document breaks the task schema.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "stored tasks do not match schema: " + strings.Join(e.Problems, "; ")
}

// EncodeTasks serializes the whole collection as a JSON array.
func EncodeTasks(tasks []task.Task) (string, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeTasks validates and parses a stored JSON array. Blank input is an
// empty collection.
func DecodeTasks(raw string) ([]task.Task, error) {
	if strings.TrimSpace(raw) == "" {
		return []task.Task{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse stored tasks: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("parse stored tasks: trailing data after array")
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var tasks []task.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode stored tasks: %w", err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	out := &SchemaError{}
	collectSchemaProblems(out, ve)
	return out
}

func collectSchemaProblems(out *SchemaError, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out.Problems = append(out.Problems, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaProblems(out, cause)
	}
}
