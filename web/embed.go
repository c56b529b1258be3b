// Package web carries the embedded dashboard assets.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
