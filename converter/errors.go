package converter

import (
	"errors"
	"fmt"

	"github.com/imcgaunn/to-webp/codec"
	"github.com/imcgaunn/to-webp/models"
)

var (
	ErrDecode               = errors.New("decode failed")
	ErrUnsupportedColorMode = codec.ErrUnsupportedMode
	ErrEncode               = errors.New("encode failed")
	ErrVerification         = errors.New("output verification failed")
)

var kindSentinels = map[models.ErrorKind]error{
	models.KindDecode:               ErrDecode,
	models.KindUnsupportedColorMode: ErrUnsupportedColorMode,
	models.KindEncode:               ErrEncode,
	models.KindVerification:         ErrVerification,
}

// ConversionError records which stage of a conversion failed. It matches the
// package sentinels with errors.Is.
type ConversionError struct {
	Kind models.ErrorKind
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func (e *ConversionError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func newError(kind models.ErrorKind, path string, err error) *ConversionError {
	return &ConversionError{Kind: kind, Path: path, Err: err}
}
