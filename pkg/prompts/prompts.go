// Package prompts holds the static prompt material for SQL translation: the
// system instruction and the few-shot exemplars compiled into the binary.
package prompts

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// SystemInstruction is the single system message of every translation prompt.
const SystemInstruction = "You are a SQL expert. Respond with a single SQL " +
	"query grounded in the given database schema."

// Exemplar is one fixed question -> SQL pair shown to the model before the
// user's question.
type Exemplar struct {
	Question string `yaml:"question"`
	SQL      string `yaml:"sql"`
}

//go:embed exemplars.yaml
var exemplarsRaw []byte

var (
	exemplarsOnce sync.Once
	exemplars     []Exemplar
	exemplarsErr  error
)

// Exemplars returns the embedded few-shot exemplars in file order.
func Exemplars() ([]Exemplar, error) {
	exemplarsOnce.Do(func() {
		var doc struct {
			Exemplars []Exemplar `yaml:"exemplars"`
		}
		if err := yaml.Unmarshal(exemplarsRaw, &doc); err != nil {
			exemplarsErr = fmt.Errorf("parse embedded exemplars: %w", err)
			return
		}
		if len(doc.Exemplars) == 0 {
			exemplarsErr = fmt.Errorf("embedded exemplars file is empty")
			return
		}
		exemplars = doc.Exemplars
	})
	return exemplars, exemplarsErr
}

// UserTurn renders a question with the schema context prefix used for both
// exemplar turns and the live question. Repeating the schema on every user
// turn mirrors how the exemplars were authored, so the model sees a
// consistent shape.
func UserTurn(schemaContext, question string) string {
	return fmt.Sprintf("Using the schema: %s\n%s", schemaContext, question)
}
