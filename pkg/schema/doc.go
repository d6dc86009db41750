// Package schema holds the document plumbing shared by the loader, the
// validator and the CLI: where a stored schema came from (Source), its raw
// payload (Document) and the Loader contract. YAML payloads are accepted
// everywhere JSON is and converted with their key order intact.
package schema
