// Package api embeds the OpenAPI description of the back-office HTTP API.
package api

import _ "embed"

//go:embed openapi.yaml
var Spec []byte
