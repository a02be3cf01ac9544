// Package hclconf loads experiment documents written in HCL native syntax
// or JSON, validates them against the schema, and translates them into the
// unified config model. It also serializes experiments back to JSON so a
// document survives a load/store round trip unchanged.
package hclconf
