// Package record models schema-less JSON records for the viewer.
//
// A Record is an ordered list of named fields whose values are a tagged union
// (Value) over the six JSON kinds. Field order is the order the fields appeared
// in the source document and is preserved through parsing, column derivation,
// display, and re-serialization. Key features:
//   - ParseDataset decodes a JSON array of objects without losing key order
//   - DeriveColumns infers table columns from the first record only
//   - Value.Display renders nested values as compact JSON text
//   - Compare provides a total ordering across kinds for client-side sorting
package record
