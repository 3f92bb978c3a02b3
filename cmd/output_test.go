package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rebroad/staden/internal/haplotype"
	"gopkg.in/yaml.v3"
)

func TestWriteGroups_text(t *testing.T) {
	var buf bytes.Buffer
	groups := [][]haplotype.Rec{{101, 102}, {103}}

	if err := writeGroups(&buf, groups, "text"); err != nil {
		t.Fatalf("writeGroups() error = %v", err)
	}

	want := "haplotype 1 (2 reads):\t#101\t#102\nhaplotype 2 (1 reads):\t#103\n"
	if buf.String() != want {
		t.Errorf("text output = %q, want %q", buf.String(), want)
	}
}

func TestWriteGroups_json(t *testing.T) {
	var buf bytes.Buffer
	if err := writeGroups(&buf, [][]haplotype.Rec{{101, 102}}, "json"); err != nil {
		t.Fatalf("writeGroups() error = %v", err)
	}

	var out []group
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(out) != 1 || out[0].Haplotype != 1 || len(out[0].Reads) != 2 {
		t.Errorf("decoded = %+v, want one group of two reads", out)
	}
}

func TestWriteGroups_yaml(t *testing.T) {
	var buf bytes.Buffer
	if err := writeGroups(&buf, [][]haplotype.Rec{{101}}, "yaml"); err != nil {
		t.Fatalf("writeGroups() error = %v", err)
	}

	var out []group
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(out) != 1 || out[0].Reads[0] != 101 {
		t.Errorf("decoded = %+v, want read 101", out)
	}
}

func TestWriteGroups_defaultFormat(t *testing.T) {
	// a plain buffer is not a terminal, so the default is JSON
	var buf bytes.Buffer
	if err := writeGroups(&buf, [][]haplotype.Rec{{101}}, ""); err != nil {
		t.Fatalf("writeGroups() error = %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "[") {
		t.Errorf("default output = %q, want JSON", buf.String())
	}
}

func TestWriteGroups_unknownFormat(t *testing.T) {
	if err := writeGroups(&bytes.Buffer{}, nil, "xml"); err == nil {
		t.Error("writeGroups() with unknown format: want error")
	}
}
