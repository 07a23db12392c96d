package models

import (
	"time"
)

type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusFailure OutcomeStatus = "failure"
)

type ErrorKind string

const (
	KindDecode               ErrorKind = "decode_error"
	KindUnsupportedColorMode ErrorKind = "unsupported_color_mode"
	KindEncode               ErrorKind = "encode_error"
	KindVerification         ErrorKind = "verification_error"
	KindCancelled            ErrorKind = "cancelled"
)

// ImageTask is one source file and the path its WEBP rendition is written to.
type ImageTask struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
}

// ConversionOutcome is produced exactly once per ImageTask. Build it with
// Succeeded or Failed and treat it as a value afterwards.
type ConversionOutcome struct {
	Task        ImageTask     `json:"task"`
	Status      OutcomeStatus `json:"status"`
	SizeBytes   int64         `json:"size_bytes,omitempty"`
	ColorMode   string        `json:"color_mode,omitempty"`
	ErrorKind   ErrorKind     `json:"error_kind,omitempty"`
	ErrorDetail string        `json:"error_detail,omitempty"`
	Duration    time.Duration `json:"duration"`
}

func Succeeded(task ImageTask, sizeBytes int64, colorMode string, d time.Duration) ConversionOutcome {
	return ConversionOutcome{
		Task:      task,
		Status:    StatusSuccess,
		SizeBytes: sizeBytes,
		ColorMode: colorMode,
		Duration:  d,
	}
}

func Failed(task ImageTask, kind ErrorKind, detail string, d time.Duration) ConversionOutcome {
	return ConversionOutcome{
		Task:        task,
		Status:      StatusFailure,
		ErrorKind:   kind,
		ErrorDetail: detail,
		Duration:    d,
	}
}

func (o ConversionOutcome) OK() bool {
	return o.Status == StatusSuccess
}
