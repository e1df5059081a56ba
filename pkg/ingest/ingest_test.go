package ingest

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fileHeaders(t *testing.T, field, filename, content string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field]
}

func TestOnFileChosen_SetsDirAndContent(t *testing.T) {
	ing := New(nil)
	files := fileHeaders(t, "configfile_file", "config.toml", "moniker = \"node\"\n")

	if err := ing.OnFileChosen(context.Background(), "configfile", `C:\fakepath\config.toml`, files); err != nil {
		t.Fatalf("on file chosen: %v", err)
	}
	if dir, _ := ing.Values().Get("configfile_dir"); dir != `C:\fakepath\config.toml` {
		t.Fatalf("dir = %q", dir)
	}
	if err := ing.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	want := map[string]string{
		"configfile_dir": `C:\fakepath\config.toml`,
		"configfile":     "moniker = \"node\"\n",
	}
	if diff := cmp.Diff(want, ing.Values().Snapshot()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestOnFileChosen_NoFile(t *testing.T) {
	ing := New(nil)
	err := ing.OnFileChosen(context.Background(), "genesisfile", "genesis.json", nil)
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if dir, ok := ing.Values().Get("genesisfile_dir"); !ok || dir != "genesis.json" {
		t.Fatalf("display path not recorded: %q %v", dir, ok)
	}
	if _, ok := ing.Values().Get("genesisfile"); ok {
		t.Fatal("content must stay unset without a file")
	}
}

func TestOnFileChosen_RequiresFieldID(t *testing.T) {
	if err := New(nil).OnFileChosen(context.Background(), " ", "x", nil); err == nil {
		t.Fatal("expected error for empty field id")
	}
}

func TestOnFileChosen_LastCompletionWins(t *testing.T) {
	ing := New(nil)
	first := fileHeaders(t, "genesisfile_file", "a.json", `{"a":1}`)
	second := fileHeaders(t, "genesisfile_file", "b.json", `{"b":2}`)

	if err := ing.OnFileChosen(context.Background(), "genesisfile", "a.json", first); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := ing.OnFileChosen(context.Background(), "genesisfile", "b.json", second); err != nil {
		t.Fatalf("second: %v", err)
	}
	if err := ing.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	got, _ := ing.Values().Get("genesisfile")
	if got != `{"a":1}` && got != `{"b":2}` {
		t.Fatalf("content should be one of the chosen files, got %q", got)
	}
	if dir, _ := ing.Values().Get("genesisfile_dir"); dir != "b.json" {
		t.Fatalf("dir should reflect the latest selection, got %q", dir)
	}
}

func TestOnFileChosen_TooLarge(t *testing.T) {
	ing := New(nil, WithMaxSize(4))
	files := fileHeaders(t, "genesisfile_file", "big.json", `{"too":"big"}`)

	if err := ing.OnFileChosen(context.Background(), "genesisfile", "big.json", files); err != nil {
		t.Fatalf("on file chosen: %v", err)
	}
	if err := ing.Wait(); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestOnFileChosen_Validation(t *testing.T) {
	ing := New(nil, WithValidation(true))
	files := fileHeaders(t, "genesisfile_file", "genesis.json", `{not json`)

	if err := ing.OnFileChosen(context.Background(), "genesisfile", "genesis.json", files); err != nil {
		t.Fatalf("on file chosen: %v", err)
	}
	if err := ing.Wait(); !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
	if _, ok := ing.Values().Get("genesisfile"); ok {
		t.Fatal("invalid content must not be stored")
	}
}

func TestOnFileChosen_CancelledContext(t *testing.T) {
	ing := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := fileHeaders(t, "genesisfile_file", "g.json", `{}`)
	if err := ing.OnFileChosen(ctx, "genesisfile", "g.json", files); err != nil {
		t.Fatalf("on file chosen: %v", err)
	}
	if err := ing.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWait_ResetsBetweenBatches(t *testing.T) {
	ing := New(nil, WithMaxSize(2))
	big := fileHeaders(t, "a_file", "a.json", `{"x":1}`)
	if err := ing.OnFileChosen(context.Background(), "afile", "a.json", big); err != nil {
		t.Fatalf("on file chosen: %v", err)
	}
	if err := ing.Wait(); err == nil {
		t.Fatal("expected first batch to fail")
	}
	if err := ing.Wait(); err != nil {
		t.Fatalf("second wait should start clean, got %v", err)
	}
}

func TestValues_ConcurrentAccess(t *testing.T) {
	values := NewValues()
	var wg sync.WaitGroup
	for n := 0; n < 16; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			values.Set("k", "v")
			_, _ = values.Get("k")
			_ = values.Snapshot()
		}()
	}
	wg.Wait()
	if got, _ := values.Get("k"); got != "v" {
		t.Fatalf("got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		content string
		wantErr bool
	}{
		{name: "toml ok", field: "configfile", content: "[p2p]\nseeds = \"a,b\"\n"},
		{name: "toml bad", field: "configfile", content: "[p2p\n", wantErr: true},
		{name: "json ok", field: "genesisfile", content: `{"chain_id":"x"}`},
		{name: "json bad", field: "genesisfile", content: `{"chain_id":`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.field, []byte(tc.content))
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidContent) {
				t.Fatalf("error should wrap ErrInvalidContent: %v", err)
			}
		})
	}
}
