package static

import "embed"

// Bundle holds the resources served by default, rooted at "public".
//
//go:embed public
var Bundle embed.FS

const BundleRoot = "public"
