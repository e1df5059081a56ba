package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DirSuffix names the control that mirrors the chosen file path.
const DirSuffix = "_dir"

// DefaultMaxSize caps how many bytes of an upload are read.
const DefaultMaxSize int64 = 4 << 20

var (
	// ErrNoFile is returned when a selection carries no file to read.
	ErrNoFile = errors.New("ingest: no file selected")
	// ErrTooLarge is returned when an upload exceeds the configured limit.
	ErrTooLarge = errors.New("ingest: file too large")
)

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithLogger sets the logger used for read diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Ingestor) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMaxSize overrides DefaultMaxSize. Non-positive values are ignored.
func WithMaxSize(limit int64) Option {
	return func(i *Ingestor) {
		if limit > 0 {
			i.maxSize = limit
		}
	}
}

// WithValidation checks file contents against the format implied by the field
// name before storing them.
func WithValidation(enabled bool) Option {
	return func(i *Ingestor) {
		i.validate = enabled
	}
}

// Ingestor reads chosen files into a Values store.
type Ingestor struct {
	values   *Values
	logger   *zap.Logger
	maxSize  int64
	validate bool

	mu    sync.Mutex
	group *errgroup.Group
}

// New returns an Ingestor writing into values. A nil store is replaced with
// an empty one.
func New(values *Values, opts ...Option) *Ingestor {
	if values == nil {
		values = NewValues()
	}
	i := &Ingestor{
		values:  values,
		logger:  zap.NewNop(),
		maxSize: DefaultMaxSize,
		group:   new(errgroup.Group),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Values returns the store the ingestor writes into.
func (i *Ingestor) Values() *Values {
	return i.values
}

// OnFileChosen records display under "<fieldID>_dir" immediately and starts
// reading files[0] into fieldID. Only the first file is read. It returns
// ErrNoFile when files is empty; the display path is still recorded.
func (i *Ingestor) OnFileChosen(ctx context.Context, fieldID, display string, files []*multipart.FileHeader) error {
	fieldID = strings.TrimSpace(fieldID)
	if fieldID == "" {
		return fmt.Errorf("ingest: field id is required")
	}

	i.values.Set(fieldID+DirSuffix, display)

	if len(files) == 0 || files[0] == nil {
		return ErrNoFile
	}
	header := files[0]

	i.mu.Lock()
	defer i.mu.Unlock()

	i.group.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := i.read(header)
		if err != nil {
			i.logger.Warn("file read failed",
				zap.String("field", fieldID),
				zap.String("filename", header.Filename),
				zap.Error(err),
			)
			return fmt.Errorf("ingest: read %q for %s: %w", header.Filename, fieldID, err)
		}
		if i.validate {
			if err := Validate(fieldID, content); err != nil {
				return err
			}
		}
		i.values.Set(fieldID, string(content))
		i.logger.Debug("file loaded",
			zap.String("field", fieldID),
			zap.Int("bytes", len(content)),
		)
		return nil
	})
	return nil
}

// Wait blocks until every pending read started before the call has finished
// and returns the first error among them.
func (i *Ingestor) Wait() error {
	i.mu.Lock()
	group := i.group
	i.group = new(errgroup.Group)
	i.mu.Unlock()

	return group.Wait()
}

func (i *Ingestor) read(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > i.maxSize {
		return nil, ErrTooLarge
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, i.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > i.maxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
