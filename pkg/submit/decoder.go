package submit

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-cmdform/pkg/ingest"
	"github.com/goliatone/go-cmdform/pkg/keycrypt"
	"github.com/goliatone/go-cmdform/pkg/render"
	"github.com/goliatone/go-cmdform/pkg/schema"
	"github.com/goliatone/go-cmdform/pkg/widgets"
)

// PassphraseField carries the key used to decrypt sealed fields.
const PassphraseField = render.PassphraseField

// FileSuffix names the picker control of a file field.
const FileSuffix = "_file"

// DefaultMaxMemory bounds the multipart form kept in memory.
const DefaultMaxMemory int64 = 8 << 20

// DefaultSealedFields are decrypted with the passphrase when one is sent.
var DefaultSealedFields = slices.Clone(render.DefaultSealedFields)

var (
	// ErrMissingCommand is returned when the post carries no cmd value.
	ErrMissingCommand = errors.New("submit: missing cmd")
	// ErrSealedField is returned when a sealed value cannot be decrypted.
	ErrSealedField = errors.New("submit: cannot unseal field")
)

// Option configures a Decoder.
type Option func(*Decoder)

// WithSealedFields replaces DefaultSealedFields.
func WithSealedFields(names ...string) Option {
	return func(d *Decoder) {
		d.sealed = slices.Clone(names)
	}
}

// WithLogger sets the decoder logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMaxMemory overrides DefaultMaxMemory.
func WithMaxMemory(limit int64) Option {
	return func(d *Decoder) {
		if limit > 0 {
			d.maxMemory = limit
		}
	}
}

// WithWidgets sets the registry used to find file fields on legacy records.
func WithWidgets(registry *widgets.Registry) Option {
	return func(d *Decoder) {
		if registry != nil {
			d.widgets = registry
		}
	}
}

// WithFileValidation validates uploaded file contents before accepting them.
func WithFileValidation(enabled bool) Option {
	return func(d *Decoder) {
		d.validateFiles = enabled
	}
}

// Decoder turns form posts into submissions for the selected record.
type Decoder struct {
	registry      *schema.Registry
	widgets       *widgets.Registry
	logger        *zap.Logger
	sealed        []string
	maxMemory     int64
	validateFiles bool
}

// NewDecoder returns a decoder resolving records from registry.
func NewDecoder(registry *schema.Registry, opts ...Option) *Decoder {
	d := &Decoder{
		registry:  registry,
		widgets:   widgets.NewRegistry(),
		logger:    zap.NewNop(),
		sealed:    slices.Clone(DefaultSealedFields),
		maxMemory: DefaultMaxMemory,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// SealedFields returns the configured sealed field names.
func (d *Decoder) SealedFields() []string {
	return slices.Clone(d.sealed)
}

// Decode parses r and returns the submission together with the record it was
// decoded against. An unknown cmd/op pair yields an empty record and a
// submission without fields.
func (d *Decoder) Decode(r *http.Request) (Submission, schema.Record, error) {
	return d.DecodeAs(r, "", "")
}

// DecodeAs is Decode with cmd and op taken from the arguments when they are
// not empty, for routes that carry them in the path.
func (d *Decoder) DecodeAs(r *http.Request, command, operation string) (Submission, schema.Record, error) {
	if err := d.parse(r); err != nil {
		return Submission{}, schema.Record{}, err
	}

	if command = strings.TrimSpace(command); command == "" {
		command = strings.TrimSpace(r.PostFormValue(render.HiddenCommand))
	}
	if operation = strings.TrimSpace(operation); operation == "" {
		operation = strings.TrimSpace(r.PostFormValue(render.HiddenOperation))
	}
	if command == "" {
		return Submission{}, schema.Record{}, ErrMissingCommand
	}

	record := d.widgets.Decorate(d.registry.Select(command, operation))
	sub := Submission{Command: command, Operation: operation}
	if record.Empty() {
		return sub, record, nil
	}

	values := ingest.NewValues()
	for _, field := range record.Fields {
		if value, ok := r.PostForm[field.Name]; ok && len(value) > 0 {
			values.Set(field.Name, value[0])
		}
	}

	if err := d.ingestFiles(r, record, values); err != nil {
		return Submission{}, record, err
	}

	passphrase := r.PostFormValue(PassphraseField)
	for _, field := range record.Fields {
		value, _ := values.Get(field.Name)
		if passphrase != "" && value != "" && slices.Contains(d.sealed, field.Name) {
			plain, err := keycrypt.Decrypt(value, passphrase)
			if err != nil {
				return Submission{}, record, fmt.Errorf("%w %q: %w", ErrSealedField, field.Name, err)
			}
			value = plain
			sub.Sealed = append(sub.Sealed, field.Name)
		}
		sub.Fields = append(sub.Fields, FieldValue{Name: field.Name, Value: value})
	}

	d.logger.Debug("submission decoded",
		zap.String("cmd", command),
		zap.String("op", operation),
		zap.Int("fields", len(sub.Fields)),
		zap.Strings("sealed", sub.Sealed),
	)
	return sub, record, nil
}

func (d *Decoder) parse(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(d.maxMemory); err != nil {
			return fmt.Errorf("submit: parse multipart form: %w", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("submit: parse form: %w", err)
	}
	return nil
}

// ingestFiles folds "<name>_file" uploads into "<name>" for file fields. An
// uploaded file replaces the mirrored textarea contents.
func (d *Decoder) ingestFiles(r *http.Request, record schema.Record, values *ingest.Values) error {
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil
	}

	ing := ingest.New(values,
		ingest.WithLogger(d.logger),
		ingest.WithValidation(d.validateFiles),
	)
	for _, field := range record.Fields {
		if field.Descriptor.Kind != schema.KindFile {
			continue
		}
		files := r.MultipartForm.File[field.Name+FileSuffix]
		if len(files) == 0 {
			continue
		}
		display := r.PostFormValue(field.Name + ingest.DirSuffix)
		if display == "" {
			display = files[0].Filename
		}
		if err := ing.OnFileChosen(r.Context(), field.Name, display, files); err != nil {
			return fmt.Errorf("submit: %s: %w", field.Name, err)
		}
	}
	if err := ing.Wait(); err != nil {
		return fmt.Errorf("submit: ingest files: %w", err)
	}
	return nil
}
