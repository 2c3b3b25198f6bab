package batch

import "github.com/ardnew/preconfig/lang"

var (
	ErrCommand   = lang.NewError("command failed")
	ErrNoCommand = lang.NewError("missing command")
	ErrNoDirs    = lang.NewError("missing directories")
)
