package render

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/metrics"
)

// ImageMaker produces an image file for a view.
type ImageMaker interface {
	Render(ctx context.Context, v View) (string, error)
}

// Output is what gets sent: an image when ImagePath is set, Text otherwise.
type Output struct {
	Text      string
	ImagePath string
}

// Presenter chooses between image and text and falls back to text when the
// image cannot be produced.
type Presenter struct {
	images ImageMaker
}

// NewPresenter creates a presenter. images may be nil to always send text.
func NewPresenter(images ImageMaker) *Presenter {
	return &Presenter{images: images}
}

// Present renders v. It never fails.
func (p *Presenter) Present(ctx context.Context, v View, sendImage bool) Output {
	text := Text(v)
	if !sendImage || p.images == nil || len(v.Rows) == 0 {
		return Output{Text: text}
	}

	path, err := p.images.Render(ctx, v)
	if err != nil {
		metrics.RenderFallbacks.Inc()
		logger.FromContext(ctx).Warn(LogMsgImageFailed, "error", err)
		return Output{Text: text}
	}
	return Output{Text: text, ImagePath: path}
}

// Cleanup removes the image file of out, if any.
func Cleanup(ctx context.Context, out Output) {
	if out.ImagePath == "" {
		return
	}
	if err := os.Remove(out.ImagePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).Warn(LogMsgImageCleanupFailed, "path", out.ImagePath, "error", err)
	}
}
