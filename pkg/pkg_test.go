package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "preconfig" {
		t.Errorf("Expected Name to be %q, got %q", "preconfig", Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestConfigPath(t *testing.T) {
	got := ConfigPath("config.yaml")
	if filepath.Base(got) != "config.yaml" {
		t.Errorf("ConfigPath base = %q", filepath.Base(got))
	}

	if filepath.Dir(got) != ConfigDir() {
		t.Errorf("ConfigPath dir = %q, want %q", filepath.Dir(got), ConfigDir())
	}
}
