package rules

import "embed"

// dataFS embeds the authored rules tables at build time.
//
//go:embed data/*.json data/dmg/*.json
var dataFS embed.FS
