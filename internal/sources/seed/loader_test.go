package seed

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "seeds.yaml")

	yamlContent := `---
- url: https://go.dev/blog
  name: The Go Blog
  handle: "@golang"
- url: https://example.com/post
  name: Example
`

	err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(config) != 2 {
		t.Fatalf("Load() returned %d entries, want 2", len(config))
	}
	if config[0].URL != "https://go.dev/blog" || config[0].Handle != "@golang" {
		t.Errorf("first entry = %+v, want go.dev blog entry", config[0])
	}
}

func TestLoaderLoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := loader.Load(); err == nil {
		t.Error("Load() should fail on a missing file")
	}
}

func TestMapperMapLinks(t *testing.T) {
	mapper := NewMapper()

	links, err := mapper.MapLinks(Config{
		{URL: "https://go.dev/blog", Name: "The Go Blog", Handle: "@golang"},
		{URL: ""}, // skipped
		{URL: "https://example.com/post"},
	})
	if err != nil {
		t.Fatalf("MapLinks() error = %v", err)
	}

	if len(links) != 2 {
		t.Fatalf("MapLinks() returned %d links, want 2", len(links))
	}

	first := links[0]
	if first.SubmitterID != SubmitterID {
		t.Errorf("SubmitterID = %s, want %s", first.SubmitterID, SubmitterID)
	}
	if first.SubmitterName != "The Go Blog" || first.SubmitterHandle != "@golang" {
		t.Errorf("submitter fields = %s/%s, want seeded values", first.SubmitterName, first.SubmitterHandle)
	}
	if !first.CreatedAt.IsZero() {
		t.Error("seeded links must carry no creation instant")
	}
	if first.Engagements == nil || first.Reactions == nil {
		t.Error("seeded links must start with empty, non-nil logs")
	}

	// Same URL, same ID on every load.
	again, err := mapper.MapLinks(Config{{URL: "https://go.dev/blog"}})
	if err != nil {
		t.Fatalf("MapLinks() second call error = %v", err)
	}
	if again[0].ID != first.ID {
		t.Errorf("seed IDs are not stable: %s vs %s", again[0].ID, first.ID)
	}
}

func TestMapperMapLinksEmpty(t *testing.T) {
	mapper := NewMapper()
	if _, err := mapper.MapLinks(Config{{URL: ""}}); err == nil {
		t.Error("MapLinks() should fail when no valid entries remain")
	}
}
