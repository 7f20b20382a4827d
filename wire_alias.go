package carlgo

import "github.com/rawbytedev/carlgo/wire"

// Writer and Reader are the token-level grammar types from
// carlgo/wire, aliased here so descriptors, the registry and graph.Table
// can all refer to them as carlgo.Writer/carlgo.Reader without every
// caller importing the wire package directly.
type (
	Writer = wire.Writer
	Reader = wire.Reader
)

// NewWriter and NewReader forward to carlgo/wire's constructors.
var (
	NewWriter = wire.NewWriter
	NewReader = wire.NewReader
)
