package schemamodel

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Index returns the position of the property with the given id, or -1.
func (m SchemaModel) Index(id string) int {
	for idx, prop := range m.Properties {
		if prop.ID == id {
			return idx
		}
	}
	return -1
}

// Add appends a property at the end of the display order.
func (m *SchemaModel) Add(prop SchemaModelProperty) {
	m.Properties = append(m.Properties, prop)
}

// Remove deletes the property at index, keeping the order of the rest.
func (m *SchemaModel) Remove(index int) error {
	if index < 0 || index >= len(m.Properties) {
		return fmt.Errorf("schemamodel: remove index %d out of range [0,%d)", index, len(m.Properties))
	}
	m.Properties = append(m.Properties[:index], m.Properties[index+1:]...)
	return nil
}

// Move relocates the property at from so that it ends up at position to.
func (m *SchemaModel) Move(from, to int) error {
	n := len(m.Properties)
	if from < 0 || from >= n {
		return fmt.Errorf("schemamodel: move source %d out of range [0,%d)", from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("schemamodel: move target %d out of range [0,%d)", to, n)
	}
	if from == to {
		return nil
	}
	prop := m.Properties[from]
	if from < to {
		copy(m.Properties[from:to], m.Properties[from+1:to+1])
	} else {
		copy(m.Properties[to+1:from+1], m.Properties[to:from])
	}
	m.Properties[to] = prop
	return nil
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Sanitize returns a copy of the model with markup stripped from titles and
// descriptions. Ids and types are left untouched.
func (m SchemaModel) Sanitize() SchemaModel {
	out := SchemaModel{Properties: make([]SchemaModelProperty, len(m.Properties))}
	for idx, prop := range m.Properties {
		prop.Title = sanitizeText(prop.Title)
		prop.Description = sanitizeText(prop.Description)
		out.Properties[idx] = prop
	}
	return out
}

func sanitizeText(raw string) string {
	if !strings.ContainsAny(raw, "<>&") {
		return raw
	}
	// The strict policy escapes entities; titles are stored as plain text.
	return strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(raw)))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
