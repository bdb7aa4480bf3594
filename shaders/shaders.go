package shaders

import (
	_ "embed"
)

//go:embed meadow.wgsl
var MeadowWGSL string
