package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-formschema/pkg/schemamodel"
)

// SchemaIssue represents a validation error with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures the outcome of checking a stored schema.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// Err returns the issues as a *schemamodel.ValidationError, or nil when valid.
func (r SchemaValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	details := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Field != "" {
			details = append(details, issue.Field+": "+issue.Message)
			continue
		}
		details = append(details, issue.Message)
	}
	return schemamodel.NewValidationError("Invalid JSON schema.", details...)
}

var allowedPropertyKeys = map[string]struct{}{
	"title":       {},
	"description": {},
	"type":        {},
}

var allowedRootKeys = map[string]struct{}{
	"$schema":              {},
	"$id":                  {},
	"title":                {},
	"description":          {},
	"type":                 {},
	"properties":           {},
	"required":             {},
	"additionalProperties": {},
}

// ValidateJSONSchema checks that raw is a flat, object-typed schema the form
// editor can represent: an object with properties whose types are string,
// number, integer or boolean, and a required list naming existing properties.
// Every problem found is reported; the structure is then checked with
// kin-openapi.
func ValidateJSONSchema(ctx context.Context, raw []byte) SchemaValidationResult {
	if !json.Valid(raw) {
		return invalid(SchemaIssue{Message: "invalid JSON"})
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return invalid(SchemaIssue{Path: "#", Message: fmt.Sprintf("schema must be an object, not %s", root.Type)})
	}

	var issues []SchemaIssue
	root.ForEach(func(key, _ gjson.Result) bool {
		if _, ok := allowedRootKeys[key.String()]; !ok {
			issues = append(issues, issueAt("#/"+escapePointer(key.String()), "unsupported keyword"))
		}
		return true
	})

	if typ := root.Get("type"); typ.Type != gjson.String || typ.String() != schemamodel.SchemaTypeObject {
		issues = append(issues, issueAt("#/type", `schema type must be "object"`))
	}

	props := root.Get("properties")
	switch {
	case !props.Exists():
		issues = append(issues, issueAt("#/properties", "schema must define properties"))
	case !props.IsObject():
		issues = append(issues, issueAt("#/properties", "properties must be an object"))
	default:
		props.ForEach(func(key, value gjson.Result) bool {
			issues = append(issues, propertyIssues(key.String(), value)...)
			return true
		})
	}

	if required := root.Get("required"); required.Exists() {
		issues = append(issues, requiredIssues(required, props)...)
	}

	if len(issues) > 0 {
		return invalid(issues...)
	}

	parsed, err := schemamodel.ParseJSONSchema(string(raw))
	if err != nil {
		return invalid(issueFromError(err))
	}
	if err := OpenAPISchema(parsed).Validate(ctx); err != nil {
		return invalid(issueFromError(err))
	}
	return SchemaValidationResult{Valid: true}
}

func propertyIssues(id string, value gjson.Result) []SchemaIssue {
	base := "#/properties/" + escapePointer(id)
	if strings.TrimSpace(id) == "" {
		return []SchemaIssue{issueAt(base, "property id must not be empty")}
	}
	if !value.IsObject() {
		return []SchemaIssue{issueAt(base, "property must be an object")}
	}

	var issues []SchemaIssue
	value.ForEach(func(key, _ gjson.Result) bool {
		name := key.String()
		if _, ok := allowedPropertyKeys[name]; !ok {
			issues = append(issues, issueAt(base+"/"+escapePointer(name), "unsupported keyword"))
		}
		return true
	})

	for _, name := range []string{"title", "description"} {
		if field := value.Get(name); field.Exists() && field.Type != gjson.String {
			issues = append(issues, issueAt(base+"/"+name, name+" must be a string"))
		}
	}

	typ := value.Get("type")
	switch {
	case !typ.Exists():
		issues = append(issues, issueAt(base+"/type", "type is required"))
	case typ.Type != gjson.String:
		issues = append(issues, issueAt(base+"/type", "type must be a string"))
	case !schemamodel.PropertyType(typ.String()).Supported():
		issues = append(issues, issueAt(base+"/type", fmt.Sprintf("unsupported property type %q", typ.String())))
	}
	return issues
}

func requiredIssues(required, props gjson.Result) []SchemaIssue {
	if !required.IsArray() {
		return []SchemaIssue{issueAt("#/required", "required must be an array")}
	}
	defined := make(map[string]struct{})
	if props.IsObject() {
		props.ForEach(func(key, _ gjson.Result) bool {
			defined[key.String()] = struct{}{}
			return true
		})
	}

	var issues []SchemaIssue
	for idx, entry := range required.Array() {
		path := fmt.Sprintf("#/required/%d", idx)
		if entry.Type != gjson.String {
			issues = append(issues, issueAt(path, "required entries must be strings"))
			continue
		}
		if _, ok := defined[entry.String()]; props.IsObject() && !ok {
			issues = append(issues, SchemaIssue{
				Path:    path,
				Field:   entry.String(),
				Message: "required property is not defined in properties",
			})
		}
	}
	return issues
}

func invalid(issues ...SchemaIssue) SchemaValidationResult {
	return SchemaValidationResult{Valid: false, Issues: issues}
}

func issueAt(pointer, message string) SchemaIssue {
	return SchemaIssue{
		Path:    pointer,
		Field:   fieldPathFromPointer(pointer),
		Message: message,
	}
}

func issueFromError(err error) SchemaIssue {
	if err == nil {
		return SchemaIssue{Message: "unknown error"}
	}
	msg := strings.TrimSpace(err.Error())
	path := extractJSONPointer(msg)
	if path != "" {
		msg = strings.Replace(msg, " at "+path, "", 1)
	}
	msg = strings.TrimPrefix(msg, "schemamodel: ")
	msg = strings.TrimSpace(msg)

	return SchemaIssue{
		Path:    path,
		Field:   fieldPathFromPointer(path),
		Message: msg,
	}
}

func extractJSONPointer(message string) string {
	if message == "" {
		return ""
	}
	if idx := strings.LastIndex(message, " at "); idx >= 0 {
		candidate := strings.TrimSpace(message[idx+4:])
		if strings.HasPrefix(candidate, "#") {
			return trimPointer(candidate)
		}
	}
	if idx := strings.LastIndex(message, "#/"); idx >= 0 {
		return trimPointer(strings.TrimSpace(message[idx:]))
	}
	return ""
}

func trimPointer(pointer string) string {
	if pointer == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(pointer, ".)];,"))
}

func escapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}

func unescapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}

// fieldPathFromPointer turns "#/properties/age/type" into "age.type".
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for idx := 0; idx < len(parts); idx++ {
		segment := unescapePointer(parts[idx])
		switch segment {
		case "properties":
			if idx+1 < len(parts) {
				out = append(out, unescapePointer(parts[idx+1]))
				idx++
			}
		case "":
			continue
		default:
			out = append(out, segment)
		}
	}
	return strings.Join(out, ".")
}
