// Package validation checks stored form schemas before they are turned into a
// SchemaModel, and checks coerced values against the generated schema. Issues
// carry a JSON pointer and the dotted field path renderers key errors by.
package validation
