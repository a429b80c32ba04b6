// Package definition loads object dictionary definitions and builds
// od.Dictionary values from them.
//
// Definitions use the objdictgen JSON layout. On disk they are usually
// JSONC (JSON with comments and trailing commas); a YAML rendering of the
// same tree is accepted as well.
//
// The typical flow:
//
//  1. ReadFile, Parse or ParseYAML: bytes → Document
//  2. Build: Document → *od.Dictionary, resolving every type name once
//  3. validate.Validate: cross-entry checks on the built dictionary
//
// Build reports every problem it finds in one pass. Each problem is a
// *BuildError carrying the index and sub-index it concerns; use Errors to
// list them.
package definition
