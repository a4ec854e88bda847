package server

import "embed"

// distFS holds the built SPA assets. Run `make build-ui` to populate
// dist/ before building the binary; without assets the server falls back
// to a plaintext notice.
//
//go:embed all:dist
var distFS embed.FS
