package submit

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

// Result is the outcome of a dispatched command.
type Result struct {
	Command   string `json:"cmd"`
	Operation string `json:"op"`
	Output    string `json:"output"`
}

// HTML returns Output formatted for the result container.
func (r Result) HTML() string {
	return FormatResult(r.Output)
}

// Dispatcher executes a decoded submission against a node.
type Dispatcher interface {
	Dispatch(ctx context.Context, record schema.Record, sub Submission) (Result, error)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, record schema.Record, sub Submission) (Result, error)

func (f DispatcherFunc) Dispatch(ctx context.Context, record schema.Record, sub Submission) (Result, error) {
	return f(ctx, record, sub)
}

// EchoDispatcher reports the submission back instead of contacting a node.
// Sealed values are masked.
type EchoDispatcher struct{}

const maskedValue = "******"

func (EchoDispatcher) Dispatch(ctx context.Context, record schema.Record, sub Submission) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	result := Result{Command: sub.Command, Operation: sub.Operation}
	if record.Empty() {
		result.Output = fmt.Sprintf("hello world:%v,%v", sub.Command, sub.Operation)
		return result, nil
	}

	var builder strings.Builder
	builder.WriteString(sub.Command)
	builder.WriteByte(' ')
	builder.WriteString(sub.Operation)
	for _, field := range sub.Fields {
		value := field.Value
		if sub.IsSealed(field.Name) && value != "" {
			value = maskedValue
		}
		builder.WriteByte('\n')
		builder.WriteString(field.Name)
		builder.WriteString(": ")
		builder.WriteString(value)
	}
	result.Output = builder.String()
	return result, nil
}

// FormatResult escapes output for HTML and turns line breaks, including the
// two-character "\n" sequence found in node responses, into <r/> tags.
func FormatResult(output string) string {
	escaped := html.EscapeString(output)
	escaped = strings.ReplaceAll(escaped, `\n`, "<r/>")
	return strings.ReplaceAll(escaped, "\n", "<r/>")
}
