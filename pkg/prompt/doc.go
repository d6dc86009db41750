// Package prompt fills a SchemaModel from the terminal. Properties are asked
// for in display order; answers are validated with the coercion rules of the
// schemamodel package before they are accepted.
package prompt
