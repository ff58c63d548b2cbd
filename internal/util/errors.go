package util

import "errors"

var (
	ErrNoExtractableText   = errors.New("no extractable text found in PDF")
	ErrPaperExists         = errors.New("paper already exists")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrAPIKeyRequired      = errors.New("api key required")
)
