package cmd

import "github.com/ardnew/preconfig/lang"

var (
	ErrUnexpectedArgument = lang.NewError("unexpected argument")
	ErrNoTemplate         = lang.NewError("no template file")
	ErrOpenAudit          = lang.NewError("failed to open audit log")
	ErrYAMLMarshal        = lang.NewError("marshal YAML")
	ErrWriteConfig        = lang.NewError("write configuration file")
	ErrFileExists         = lang.NewError("file exists (use --force to overwrite)")
)
