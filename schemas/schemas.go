// Package schemas embeds the OpenAPI document for the insights HTTP surface.
package schemas

import _ "embed"

// OpenAPISpec is the raw openapi.yaml document.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
