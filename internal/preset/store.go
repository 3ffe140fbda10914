package preset

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/port"
)

// name must be a filesystem-safe slug; anything else is rejected before it
// can touch a path.
var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Store is a flat-file preset store: one <name>.md per preset under dir,
// first line conventionally a "# Title" marker, remainder free-form
// instruction prose treated opaquely.
type Store struct {
	dir string
}

// NewStore creates a file-backed preset store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Seed creates the preset directory and writes the built-in default presets.
// Files that already exist are left untouched.
func (s *Store) Seed() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating preset directory: %w", err)
	}
	for name, body := range defaults {
		path := filepath.Join(s.dir, name+".md")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("seeding preset %s: %w", name, err)
		}
		log.Printf("preset.Seed: wrote built-in preset %s", name)
	}
	return nil
}

func (s *Store) Get(name string) (*domain.Preset, error) {
	if !nameRe.MatchString(name) {
		return nil, domain.ErrInvalidPresetName
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrPresetNotFound
		}
		return nil, fmt.Errorf("reading preset %s: %w", name, err)
	}
	body := string(data)
	return &domain.Preset{Name: name, Title: titleOf(body), Body: body}, nil
}

func (s *Store) List() ([]domain.Preset, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing presets: %w", err)
	}

	var presets []domain.Preset
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		p, err := s.Get(name)
		if err != nil {
			log.Printf("preset.List: skipping %s: %v", entry.Name(), err)
			continue
		}
		presets = append(presets, *p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

func (s *Store) Save(p *domain.Preset) error {
	if !nameRe.MatchString(p.Name) {
		return domain.ErrInvalidPresetName
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating preset directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, p.Name+".md"), []byte(p.Body), 0o644); err != nil {
		return fmt.Errorf("writing preset %s: %w", p.Name, err)
	}
	return nil
}

func (s *Store) Delete(name string) error {
	if !nameRe.MatchString(name) {
		return domain.ErrInvalidPresetName
	}
	err := os.Remove(filepath.Join(s.dir, name+".md"))
	if os.IsNotExist(err) {
		return domain.ErrPresetNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting preset %s: %w", name, err)
	}
	return nil
}

// titleOf extracts the conventional "# Title" first line, falling back to an
// empty title when the marker is absent.
func titleOf(body string) string {
	first, _, _ := strings.Cut(body, "\n")
	if strings.HasPrefix(first, "# ") {
		return strings.TrimSpace(strings.TrimPrefix(first, "# "))
	}
	return ""
}

var _ port.PresetStore = (*Store)(nil)
