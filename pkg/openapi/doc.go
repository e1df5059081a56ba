// Package openapi exposes the public contracts for exporting command records
// as an OpenAPI 3 document. The kin-openapi implementation lives under
// internal/openapi so consumers never depend on its types.
package openapi
