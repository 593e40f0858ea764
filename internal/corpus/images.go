package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/internal/errs"
)

// Builder produces an ordered SlideCorpus from a slide source (image folder
// or paginated document).
type Builder interface {
	Build(ctx context.Context, source string) (SlideCorpus, error)
}

// TextExtractor pulls text out of a single slide image. It is optional for
// the image-folder builder; without one, slides carry empty extracted text
// and alignment relies on timing alone.
type TextExtractor interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// ImageFolderBuilder builds a corpus from a folder of slide images sorted by
// file name.
type ImageFolderBuilder struct {
	extractor TextExtractor
	logger    *zap.Logger
}

// NewImageFolderBuilder creates an ImageFolderBuilder. The extractor may be
// nil.
func NewImageFolderBuilder(extractor TextExtractor, logger *zap.Logger) *ImageFolderBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageFolderBuilder{extractor: extractor, logger: logger}
}

// Build scans the folder for slide images and returns them as an ordered
// corpus. A failed extraction on a single image yields an empty-text
// descriptor and the pass continues.
func (b *ImageFolderBuilder) Build(ctx context.Context, source string) (SlideCorpus, error) {
	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("read slide folder %s: %w", source, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	corpus := make(SlideCorpus, 0, len(names))
	for i, name := range names {
		imagePath := filepath.Join(source, name)
		b.logger.Info("analyzing slide",
			zap.Int("slide", i+1),
			zap.Int("total", len(names)),
			zap.String("name", name))

		text := ""
		if b.extractor != nil {
			text, err = b.extractor.ExtractText(ctx, imagePath)
			if err != nil {
				itemErr := &errs.ItemProcessingError{Unit: name, Err: err}
				b.logger.Warn("slide text extraction failed, using empty placeholder",
					zap.Error(itemErr))
				text = ""
			}
		}
		text = strings.TrimSpace(text)

		corpus = append(corpus, SlideDescriptor{
			Index:         i,
			Name:          name,
			ImagePath:     imagePath,
			ExtractedText: text,
			WordCount:     len(strings.Fields(text)),
		})
	}

	if err := corpus.Validate(); err != nil {
		return nil, fmt.Errorf("invalid slide corpus: %w", err)
	}

	b.logger.Info("slide corpus built", zap.Int("slides", len(corpus)))
	return corpus, nil
}
