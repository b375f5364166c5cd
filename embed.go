// embed.go
package cursegen

import _ "embed"

// Embedded copies of the introspection and support C sources, so the tool
// works standalone. A csrc_dir config entry switches to on-disk files, which
// additionally get rerun-if-changed directives.
var (
	//go:embed csrc/genconstants.c
	genConstantsC []byte

	//go:embed csrc/genmenuconstants.c
	genMenuConstantsC []byte

	//go:embed csrc/wrap.c
	wrapC []byte
)
