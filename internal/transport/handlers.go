package transport

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-cmdform/internal/observability"
	"github.com/goliatone/go-cmdform/pkg/openapi"
	"github.com/goliatone/go-cmdform/pkg/query"
	"github.com/goliatone/go-cmdform/pkg/render"
	"github.com/goliatone/go-cmdform/pkg/schema"
)

type handlers struct {
	deps Dependencies
}

// submitResponse is the JSON body returned to the page runtime script.
type submitResponse struct {
	Command   string `json:"cmd"`
	Operation string `json:"op"`
	Result    string `json:"result"`
}

type commandField struct {
	Name        string      `json:"name"`
	Kind        schema.Kind `json:"kind,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
}

type commandEntry struct {
	Command   string         `json:"cmd"`
	Operation string         `json:"op"`
	Title     string         `json:"title,omitempty"`
	Fields    []commandField `json:"fields"`
}

// page serves the full console page for ?cmd=..&op=.. .
func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	record, opts := h.selection(r)
	body, err := h.deps.Renderer.RenderPage(r.Context(), record, opts)
	if err != nil {
		h.renderFailed(w, r, err)
		return
	}
	WriteHTML(w, h.deps.Renderer.ContentType(), body)
}

// form serves only the form fragment for embedding.
func (h *handlers) form(w http.ResponseWriter, r *http.Request) {
	record, opts := h.selection(r)
	body, err := h.deps.Renderer.BuildForm(r.Context(), record, opts)
	if err != nil {
		h.renderFailed(w, r, err)
		return
	}
	WriteHTML(w, h.deps.Renderer.ContentType(), body)
}

// selection resolves the record named by the query string. Query values
// matching a field name prefill it. Unknown pairs keep cmd/op so the form
// still posts them back.
func (h *handlers) selection(r *http.Request) (schema.Record, render.RenderOptions) {
	params := query.Parse(r.URL.RequestURI())
	cmd := params.Value(render.HiddenCommand)
	op := params.Value(render.HiddenOperation)

	record := h.deps.Schemas.Select(cmd, op)
	if record.Command == "" {
		record.Command, record.Operation = cmd, op
	}

	values := map[string]string{}
	for _, name := range record.Names() {
		if value, ok := params.Get(name); ok {
			values[name] = value
		}
	}
	return record, render.RenderOptions{Action: PathCommandList, Values: values}
}

func (h *handlers) submit(w http.ResponseWriter, r *http.Request) {
	logger := observability.LoggerFrom(r.Context(), h.deps.Logger)

	sub, record, err := h.deps.Decoder.DecodeAs(r, chi.URLParam(r, "cmd"), chi.URLParam(r, "op"))
	if err != nil {
		logger.Warn("submission rejected", zap.Error(err))
		WriteError(w, statusForDecode(err), err.Error())
		return
	}
	logger.Debug("submission",
		zap.String("cmd", sub.Command),
		zap.String("op", sub.Operation),
		observability.ValuesField("fields", observability.RedactFields(sub.Values(), h.deps.Decoder.SealedFields())),
	)

	result, err := h.deps.Dispatcher.Dispatch(r.Context(), record, sub)
	if err != nil {
		logger.Error("dispatch failed",
			zap.String("cmd", sub.Command),
			zap.String("op", sub.Operation),
			zap.Error(err),
		)
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		WriteError(w, status, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, submitResponse{
		Command:   sub.Command,
		Operation: sub.Operation,
		Result:    result.HTML(),
	})
}

func (h *handlers) commands(w http.ResponseWriter, _ *http.Request) {
	records := h.deps.Schemas.Records()
	out := make([]commandEntry, 0, len(records))
	for _, record := range records {
		entry := commandEntry{
			Command:   record.Command,
			Operation: record.Operation,
			Title:     record.Title,
			Fields:    make([]commandField, 0, len(record.Fields)),
		}
		for _, field := range record.Fields {
			entry.Fields = append(entry.Fields, commandField{
				Name:        field.Name,
				Kind:        field.Descriptor.Kind,
				Placeholder: field.Descriptor.Placeholder,
			})
		}
		out = append(out, entry)
	}
	WriteJSON(w, http.StatusOK, out)
}

func (h *handlers) openAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := h.deps.Exporter.Export(r.Context(), h.deps.Schemas.Records(), openapi.ExportOptions{
		BasePath: PathCommandList,
	})
	if err != nil {
		observability.LoggerFrom(r.Context(), h.deps.Logger).Error("openapi export failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "openapi export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Raw())
}

func (h *handlers) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFrom(r.Context(), h.deps.Logger).Error("render failed", zap.Error(err))
	status := http.StatusInternalServerError
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
	}
	WriteError(w, status, "render failed")
}
