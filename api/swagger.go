// Package api holds the OpenAPI description of the console HTTP surface.
package api

import _ "embed"

//go:embed swagger/console.swagger.json
var ConsoleSwagger []byte
