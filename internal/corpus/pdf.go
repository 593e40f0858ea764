package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/eric0324/wisdom-video/internal/errs"
	"github.com/eric0324/wisdom-video/internal/guard"
	"github.com/eric0324/wisdom-video/pkg/executor"
)

// PDFBuilder builds a corpus from a paginated document, one slide per page.
// Pages are processed strictly in order with a checkpoint written after each
// one, so an interrupted pass resumes by skipping already-processed pages.
type PDFBuilder struct {
	pdfinfoPath   string
	pdftotextPath string
	pdftoppmPath  string
	workDir       string
	exec          executor.Executor
	guard         guard.ResourceGuard
	logger        *zap.Logger
}

// NewPDFBuilder creates a PDFBuilder. The guard may be nil, in which case no
// resource check runs between pages.
func NewPDFBuilder(pdfinfoPath, pdftotextPath, pdftoppmPath, workDir string, exec executor.Executor, g guard.ResourceGuard, logger *zap.Logger) *PDFBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if g == nil {
		g = guard.NoopGuard{}
	}
	return &PDFBuilder{
		pdfinfoPath:   pdfinfoPath,
		pdftotextPath: pdftotextPath,
		pdftoppmPath:  pdftoppmPath,
		workDir:       workDir,
		exec:          exec,
		guard:         g,
		logger:        logger,
	}
}

// Build extracts every page of the document into a slide descriptor with
// rasterized image and text. A per-page extraction failure yields an
// empty-text descriptor; a resource-guard trip aborts the pass with the
// checkpoint preserved.
func (b *PDFBuilder) Build(ctx context.Context, source string) (SlideCorpus, error) {
	pages, err := b.pageCount(ctx, source)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(b.workDir, 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	store := NewCheckpointStore(filepath.Join(b.workDir, "corpus_checkpoint.json"), b.logger)
	if err := store.Acquire(); err != nil {
		return nil, err
	}
	defer store.Release()

	corpus := SlideCorpus{}
	if cp, err := store.Load(); err != nil {
		return nil, err
	} else if cp != nil {
		corpus = cp.Processed
		b.logger.Info("resuming corpus pass from checkpoint",
			zap.Int("processed", cp.ProcessedCount),
			zap.Int("pages", pages),
			zap.String("checkpoint_time", cp.Timestamp))
	}

	for page := len(corpus) + 1; page <= pages; page++ {
		if err := b.guard.Check(); err != nil {
			// Checkpoint stays on disk so the pass can resume.
			return nil, fmt.Errorf("corpus pass aborted at page %d: %w", page, err)
		}

		desc, err := b.buildPage(ctx, source, page)
		if err != nil {
			itemErr := &errs.ItemProcessingError{Unit: fmt.Sprintf("page %d", page), Err: err}
			b.logger.Warn("page processing failed, using empty placeholder", zap.Error(itemErr))
			desc = SlideDescriptor{
				Index: page - 1,
				Name:  pageName(page),
			}
		}

		corpus = append(corpus, desc)
		if err := store.Save(corpus); err != nil {
			return nil, err
		}
	}

	if err := corpus.Validate(); err != nil {
		return nil, fmt.Errorf("invalid slide corpus: %w", err)
	}

	if err := store.Clear(); err != nil {
		return nil, err
	}

	b.logger.Info("pdf corpus built", zap.Int("pages", len(corpus)))
	return corpus, nil
}

func (b *PDFBuilder) buildPage(ctx context.Context, source string, page int) (SlideDescriptor, error) {
	b.logger.Info("processing pdf page", zap.Int("page", page))

	pageArg := strconv.Itoa(page)
	text, err := b.exec.Execute(ctx, b.pdftotextPath, "-f", pageArg, "-l", pageArg, source, "-")
	if err != nil {
		return SlideDescriptor{}, fmt.Errorf("extract text: %w", err)
	}
	text = strings.TrimSpace(text)

	prefix := filepath.Join(b.workDir, fmt.Sprintf("page_%03d", page))
	if _, err := b.exec.Execute(ctx, b.pdftoppmPath,
		"-png", "-r", "150", "-singlefile",
		"-f", pageArg, "-l", pageArg,
		source, prefix); err != nil {
		return SlideDescriptor{}, fmt.Errorf("rasterize page: %w", err)
	}

	return SlideDescriptor{
		Index:         page - 1,
		Name:          pageName(page),
		ImagePath:     prefix + ".png",
		ExtractedText: text,
		WordCount:     len(strings.Fields(text)),
	}, nil
}

func (b *PDFBuilder) pageCount(ctx context.Context, source string) (int, error) {
	out, err := b.exec.Execute(ctx, b.pdfinfoPath, source)
	if err != nil {
		return 0, fmt.Errorf("pdfinfo: %w", err)
	}

	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "Pages:"); ok {
			pages, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				return 0, fmt.Errorf("parse page count %q: %w", strings.TrimSpace(rest), err)
			}
			return pages, nil
		}
	}
	return 0, fmt.Errorf("pdfinfo output for %s has no Pages field", source)
}

func pageName(page int) string {
	return fmt.Sprintf("page_%03d.png", page)
}
