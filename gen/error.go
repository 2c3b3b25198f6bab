package gen

import "github.com/ardnew/preconfig/lang"

var (
	ErrReadTemplate    = lang.NewError("failed to read template")
	ErrReadDefinitions = lang.NewError("failed to read definitions")
	ErrDefinition      = lang.NewError("invalid definition")
	ErrRepeat          = lang.NewError("repeat count must be at least 1")
	ErrOutputDir       = lang.NewError("output directory does not exist")
)
