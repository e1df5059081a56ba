package tui

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cmdform/pkg/keycrypt"
	"github.com/goliatone/go-cmdform/pkg/render"
	"github.com/goliatone/go-cmdform/pkg/schema"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputConfigs []InputConfig
	confirmCfgs  []ConfirmConfig
	inputPos     int
	passPos      int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.inputConfigs = append(s.inputConfigs, cfg)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	s.confirmCfgs = append(s.confirmCfgs, cfg)
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestRender_ChangeValidatorJSON(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"127.0.0.1:46657", "node-pub", "chain", "10"},
		passwords: []string{"secret"},
		confirm:   []bool{false},
	}
	r, err := New(WithPromptDriver(driver), WithSealedFields("privkey"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	record := schema.NewRegistry().Select("special", "change_validator")
	out, err := r.Render(context.Background(), record, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]string{
		"cmd":       "special",
		"op":        "change_validator",
		"backend":   "127.0.0.1:46657",
		"privkey":   "secret",
		"to_v_node": "node-pub",
		"target":    "chain",
		"power":     "10",
		"isCA":      "false",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Change validator"}, driver.infoMessages); diff != "" {
		t.Fatalf("title not announced (-want +got):\n%s", diff)
	}
	if !driver.confirmCfgs[0].Default {
		t.Fatal("checkbox should default to true")
	}
}

func TestRender_ListOffersSuggestions(t *testing.T) {
	driver := &stubDriver{inputs: []string{"evm"}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	record := schema.Record{
		Command:   "organization",
		Operation: "create",
		Fields:    []schema.Field{{Name: "app_list", Descriptor: schema.ParseDescriptor("'Application'")}},
	}
	out, err := r.Render(context.Background(), record, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	values, err := url.ParseQuery(string(out))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if values.Get("app_list") != "evm" || values.Get("cmd") != "organization" || values.Get("op") != "create" {
		t.Fatalf("unexpected form output %q", out)
	}
	if values.Has("filediv") {
		t.Fatal("filediv is browser bookkeeping and should not be emitted")
	}
	if diff := cmp.Diff([]string{"evm", "ikhofi", "noop", "remote"}, driver.inputConfigs[0].Suggestions); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_FileAndText(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"/tmp/config.toml"},
		textAreas: []string{"print('hi')"},
	}
	reader := func(path string) ([]byte, error) {
		if path != "/tmp/config.toml" {
			return nil, os.ErrNotExist
		}
		return []byte("moniker = \"n\"\n"), nil
	}
	r, err := New(WithPromptDriver(driver), WithFileReader(reader), WithFileValidation(true))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	record := schema.Record{
		Command: "x",
		Fields: []schema.Field{
			{Name: "configfile", Descriptor: schema.ParseDescriptor("|file")},
			{Name: "code_text", Descriptor: schema.ParseDescriptor("")},
		},
	}
	out, err := r.Render(context.Background(), record, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got["configfile"] != "moniker = \"n\"\n" || got["code_text"] != "print('hi')" {
		t.Fatalf("unexpected values %#v", got)
	}
}

func TestRender_FileReadError(t *testing.T) {
	driver := &stubDriver{inputs: []string{"/missing.json"}}
	r, err := New(WithPromptDriver(driver), WithFileReader(func(string) ([]byte, error) {
		return nil, os.ErrNotExist
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	record := schema.Record{Command: "x", Fields: []schema.Field{{Name: "genesisfile", Descriptor: schema.ParseDescriptor("|file")}}}
	if _, err := r.Render(context.Background(), record, render.RenderOptions{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRender_PrettyMasksSealed(t *testing.T) {
	driver := &stubDriver{inputs: []string{"n1", "pub"}, passwords: []string{"s3cr3t"}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText), WithSealedFields("sec"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), schema.NewRegistry().Select("sign", "node"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "cmd: sign\nop: node\nbackend: n1\nsec: ******\npub: pub\n"
	if string(out) != want {
		t.Fatalf("pretty output = %q, want %q", out, want)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("content type = %q", r.ContentType())
	}
}

func TestRender_JSONKeepsFieldOrder(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"127.0.0.1:46657", "node-pub", "chain", "10"},
		passwords: []string{"secret"},
		confirm:   []bool{true},
	}
	r, err := New(WithPromptDriver(driver), WithSealedFields("privkey"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), schema.NewRegistry().Select("special", "change_validator"), render.RenderOptions{
		Hidden: []render.HiddenField{render.Hidden("csrf", "t")},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `{"cmd":"special","op":"change_validator","backend":"127.0.0.1:46657","privkey":"secret",` +
		`"to_v_node":"node-pub","target":"chain","power":"10","isCA":"true","csrf":"t"}`
	if string(out) != want {
		t.Fatalf("json output = %s\nwant          %s", out, want)
	}
}

func TestRender_PassphraseSealsFields(t *testing.T) {
	driver := &stubDriver{inputs: []string{"n1", "pub"}, passwords: []string{"s3cr3t"}}
	r, err := New(WithPromptDriver(driver), WithSealedFields("sec"), WithPassphrase("k3y"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), schema.NewRegistry().Select("sign", "node"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got["sec"] == "s3cr3t" {
		t.Fatal("sealed field emitted in plaintext")
	}
	plain, err := keycrypt.Decrypt(got["sec"], got[render.PassphraseField])
	if err != nil || plain != "s3cr3t" {
		t.Fatalf("Decrypt = %q, %v", plain, err)
	}
	if got["pub"] != "pub" {
		t.Fatalf("unsealed field changed: %q", got["pub"])
	}
}

func TestRender_PassphraseSkipsEmptySealedValues(t *testing.T) {
	driver := &stubDriver{inputs: []string{"n1", "pub"}, passwords: []string{""}}
	r, err := New(WithPromptDriver(driver), WithSealedFields("sec"), WithPassphrase("k3y"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), schema.NewRegistry().Select("sign", "node"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got map[string]string
	_ = json.Unmarshal(out, &got)
	if _, ok := got[render.PassphraseField]; ok || got["sec"] != "" {
		t.Fatalf("unexpected sealing of empty value: %#v", got)
	}
}

func TestRender_SubmitTransformer(t *testing.T) {
	driver := &stubDriver{inputs: []string{"a"}}
	r, err := New(WithPromptDriver(driver), WithSubmitTransformer(func(values map[string]string) (map[string]string, error) {
		values["extra"] = "1"
		return values, nil
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	record := schema.Record{Command: "c", Operation: "o", Fields: []schema.Field{{Name: "f", Descriptor: schema.ParseDescriptor("|input")}}}
	out, err := r.Render(context.Background(), record, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got map[string]string
	_ = json.Unmarshal(out, &got)
	if got["extra"] != "1" || got["f"] != "a" {
		t.Fatalf("transformer not applied: %#v", got)
	}
}

func TestRender_DriverErrorAndCancel(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	record := schema.Record{Command: "c", Fields: []schema.Field{{Name: "f", Descriptor: schema.ParseDescriptor("|input")}}}
	if _, err := r.Render(context.Background(), record, render.RenderOptions{}); err == nil {
		t.Fatal("expected driver error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, record, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithOutputFormat("xml")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSuggest(t *testing.T) {
	got := suggest([]string{"evm", "ikhofi", "noop"}, "e")
	if diff := cmp.Diff([]string{"evm"}, got); diff != "" {
		t.Fatalf("suggest mismatch (-want +got):\n%s", diff)
	}
}
