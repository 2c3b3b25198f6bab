package emit

import "github.com/ardnew/preconfig/lang"

var (
	ErrWriteFile   = lang.NewError("failed to write file")
	ErrWriteAudit  = lang.NewError("failed to write audit record")
	ErrAuditFormat = lang.NewError("unknown audit format")
)
