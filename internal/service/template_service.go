package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"privasee/internal/config"
	"privasee/internal/domain"
)

// TemplateService serves the read-only system strategy templates and the
// user-saved redaction configurations.
type TemplateService interface {
	ListTemplates() ([]domain.StrategyTemplate, error)
	GetTemplate(name string) (*domain.StrategyTemplate, error)
	SaveConfig(cfg *domain.RedactionConfig) error
	ListConfigs() ([]domain.RedactionConfig, error)
	GetConfig(name string) (*domain.RedactionConfig, error)
	DeleteConfig(name string) error
}

type templateService struct {
	templatesDir string
	configsDir   string
}

// NewTemplateService creates a new TemplateService implementation.
func NewTemplateService(cfg *config.DirsConfig) TemplateService {
	return &templateService{
		templatesDir: cfg.TemplatesDir,
		configsDir:   cfg.ConfigsDir,
	}
}

// ListTemplates loads every system template from the templates directory,
// sorted by template name. A missing directory just means no templates.
func (s *templateService) ListTemplates() ([]domain.StrategyTemplate, error) {
	entries, err := os.ReadDir(s.templatesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.StrategyTemplate{}, nil
		}
		return nil, fmt.Errorf("reading templates directory: %w", err)
	}

	templates := make([]domain.StrategyTemplate, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		tmpl, err := s.loadTemplate(filepath.Join(s.templatesDir, e.Name()))
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tmpl)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].TemplateName < templates[j].TemplateName })
	return templates, nil
}

// GetTemplate returns the system template with the given name.
func (s *templateService) GetTemplate(name string) (*domain.StrategyTemplate, error) {
	templates, err := s.ListTemplates()
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].TemplateName == name {
			return &templates[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// SaveConfig validates and persists a user redaction configuration as a
// JSON file named after the sanitized config name.
func (s *templateService) SaveConfig(cfg *domain.RedactionConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return domain.ErrEmptyFieldName
	}
	if err := domain.ValidateFieldDefinitions(cfg.Fields); err != nil {
		return err
	}
	for i := range cfg.Fields {
		if cfg.Fields[i].Source == "" {
			cfg.Fields[i].Source = domain.FieldSourceCustom
		}
	}
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = time.Now().UTC()
	}

	if err := os.MkdirAll(s.configsDir, 0o755); err != nil {
		return fmt.Errorf("creating configs directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(s.configsDir, sanitizeName(cfg.Name)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ListConfigs loads every saved user configuration, sorted by name.
func (s *templateService) ListConfigs() ([]domain.RedactionConfig, error) {
	entries, err := os.ReadDir(s.configsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.RedactionConfig{}, nil
		}
		return nil, fmt.Errorf("reading configs directory: %w", err)
	}

	configs := make([]domain.RedactionConfig, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		cfg, err := s.loadConfig(filepath.Join(s.configsDir, e.Name()))
		if err != nil {
			return nil, err
		}
		configs = append(configs, *cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}

// GetConfig returns the saved configuration with the given name.
func (s *templateService) GetConfig(name string) (*domain.RedactionConfig, error) {
	path := filepath.Join(s.configsDir, sanitizeName(name)+".json")
	cfg, err := s.loadConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return cfg, nil
}

// DeleteConfig removes the saved configuration with the given name.
func (s *templateService) DeleteConfig(name string) error {
	path := filepath.Join(s.configsDir, sanitizeName(name)+".json")
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("deleting config: %w", err)
	}
	return nil
}

func (s *templateService) loadTemplate(path string) (*domain.StrategyTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", filepath.Base(path), err)
	}
	var tmpl domain.StrategyTemplate
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", filepath.Base(path), err)
	}
	for i := range tmpl.Fields {
		tmpl.Fields[i].Source = domain.FieldSourceSystem
	}
	return &tmpl, nil
}

func (s *templateService) loadConfig(path string) (*domain.RedactionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg domain.RedactionConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

var unsafeNameChars = regexp.MustCompile(`[^\w\-]`)

// sanitizeName maps a user-supplied config name to a safe filename stem.
func sanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
}
