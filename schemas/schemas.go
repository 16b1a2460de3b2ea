// Package schemas holds the embedded JSON Schemas for wire payloads.
package schemas

import _ "embed"

// GradeRequestSchemaJSON is the JSON Schema for POST /api/grade bodies.
//
//go:embed grade_request.schema.json
var GradeRequestSchemaJSON string
