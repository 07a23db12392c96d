package converter

import (
	"context"
	"errors"
	"image"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/imcgaunn/to-webp/codec"
	"github.com/imcgaunn/to-webp/models"
)

type Codec interface {
	Decode(path string) (image.Image, error)
	Encode(img image.Image, path string) error
}

type Converter struct {
	codec  Codec
	logger *zap.Logger
	stat   func(name string) (os.FileInfo, error)
}

func NewConverter(c Codec, logger *zap.Logger) *Converter {
	return &Converter{
		codec:  c,
		logger: logger,
		stat:   os.Stat,
	}
}

// Convert runs decode, normalize, encode and verify for one task. Failures are
// classified into the returned outcome rather than returned as errors.
func (c *Converter) Convert(_ context.Context, task models.ImageTask) models.ConversionOutcome {
	start := time.Now()

	size, mode, cerr := c.convert(task)
	if cerr != nil {
		return models.Failed(task, cerr.Kind, cerr.Err.Error(), time.Since(start))
	}

	return models.Succeeded(task, size, string(mode), time.Since(start))
}

func (c *Converter) convert(task models.ImageTask) (int64, codec.ColorMode, *ConversionError) {
	src, err := c.codec.Decode(task.SourcePath)
	if err != nil {
		c.logger.Error("Failed to decode image",
			zap.String("path", task.SourcePath),
			zap.Error(err),
		)
		return 0, "", newError(models.KindDecode, task.SourcePath, err)
	}

	mode := codec.ModeOf(src)
	img, err := codec.Normalize(src, mode)
	if err != nil {
		c.logger.Error("Unsupported color mode",
			zap.String("path", task.SourcePath),
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return 0, mode, newError(models.KindUnsupportedColorMode, task.SourcePath, err)
	}
	if mode == codec.ModePalette || mode == codec.ModeRGBA {
		c.logger.Debug("Normalized color mode",
			zap.String("path", task.SourcePath),
			zap.String("from", string(mode)),
			zap.String("to", string(codec.ModeRGB)),
		)
	}

	if err := c.codec.Encode(img, task.DestinationPath); err != nil {
		c.logger.Error("Failed to save WEBP",
			zap.String("path", task.DestinationPath),
			zap.Error(err),
		)
		return 0, mode, newError(models.KindEncode, task.DestinationPath, err)
	}

	info, err := c.stat(task.DestinationPath)
	if err != nil {
		c.logger.Error("Output missing after write",
			zap.String("path", task.DestinationPath),
			zap.Error(err),
		)
		return 0, mode, newError(models.KindVerification, task.DestinationPath, err)
	}
	if info.Size() == 0 {
		return 0, mode, newError(models.KindVerification, task.DestinationPath, errors.New("output is empty"))
	}

	return info.Size(), mode, nil
}
