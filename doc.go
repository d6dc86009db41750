// Package formschema wires the loader, validator and converter together for
// callers that edit flat JSON Schemas through forms: LoadModel reads a stored
// schema into an ordered SchemaModel, SaveSchema writes one back, and
// SubmitInput turns string form values into typed JSON.
package formschema
