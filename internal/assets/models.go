package assets

import _ "embed"

// ModelsData holds the JSON catalog of known providers and their models.
//
//go:embed models.json
var ModelsData []byte
