package fsworkspace

import "embed"

// templatesFS holds the files a fresh workspace starts with.
//
//go:embed templates
var templatesFS embed.FS
