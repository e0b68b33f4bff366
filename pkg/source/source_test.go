package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/beanchain/pkg/bean"
	"github.com/matzehuels/beanchain/pkg/config"
	"github.com/matzehuels/beanchain/pkg/errors"
)

const sample = `[
  {"name": "A", "dependencies": ["B", ""], "source": "Project"},
  {"name": "B", "type": "com.acme.pay.Client", "source": "ThirdParty"},
  {"dependencies": ["A"]},
  {"name": "C", "dependencies": ["B"], "source": "SpringBoot"}
]`

func TestDecode(t *testing.T) {
	records, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	if records[1].Type != "com.acme.pay.Client" {
		t.Errorf("record 1 type = %q", records[1].Type)
	}

	_, err = Decode(strings.NewReader(`{"name": "A"}`))
	if !errors.Is(err, errors.ErrCodeInvalidSource) {
		t.Errorf("object input error = %v, want INVALID_SOURCE", err)
	}
}

func TestDecodeSkipsMalformedRecords(t *testing.T) {
	const data = `[
  {"name": "A", "dependencies": ["B", 7, null, "C"]},
  {"name": 42, "dependencies": ["A"]},
  "not a record",
  null,
  {"name": "B", "categories": "service", "isAdditionalBean": "yes"}
]`
	records, err := Decode(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	entries := Entries(records, bean.DefaultClassifier())
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if got := strings.Join(names, ","); got != "A,B" {
		t.Fatalf("entries = %s, want A,B", got)
	}
	if got := strings.Join(entries[0].Dependencies, ","); got != "B,C" {
		t.Errorf("A dependencies = %s, want B,C", got)
	}
	if len(entries[1].Meta.Categories) != 0 || entries[1].Meta.IsAdditionalBean {
		t.Errorf("B metadata = %+v, want mistyped fields left empty", entries[1].Meta)
	}
}

func TestEntries(t *testing.T) {
	records, _ := Decode(strings.NewReader(sample))
	entries := Entries(records, bean.DefaultClassifier())

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if got := strings.Join(names, ","); got != "A,B,C" {
		t.Errorf("entries = %s, want A,B,C", got)
	}
	if len(entries[0].Dependencies) != 1 {
		t.Errorf("A dependencies = %v, want [B]", entries[0].Dependencies)
	}
	if !entries[1].Meta.IsThirdParty {
		t.Error("B should be third-party")
	}
	if !entries[2].Meta.IsFrameworkBean {
		t.Error("C should be a framework bean")
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beans.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	records, err := (&File{Path: path}).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("got %d records, want 4", len(records))
	}

	_, err = (&File{Path: filepath.Join(dir, "missing.json")}).Load(ctx)
	if !errors.Is(err, errors.ErrCodeSourceNotFound) {
		t.Errorf("missing file error = %v, want SOURCE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("[{"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = (&File{Path: bad}).Load(ctx)
	if !errors.Is(err, errors.ErrCodeInvalidSource) {
		t.Errorf("bad file error = %v, want INVALID_SOURCE", err)
	}
}

func TestOpen(t *testing.T) {
	l, err := Open(config.Source{Kind: config.SourceFile, Path: "beans.json"})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if f, ok := l.(*File); !ok || f.Path != "beans.json" {
		t.Errorf("Open(file) = %#v", l)
	}

	if _, err := Open(config.Source{Kind: "s3"}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Open(s3) error = %v, want UNSUPPORTED", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering file twice should panic")
		}
	}()
	Register(config.SourceFile, func(config.Source) (Loader, error) { return nil, nil })
}
