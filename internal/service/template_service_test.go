package service_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privasee/internal/config"
	"privasee/internal/domain"
	"privasee/internal/service"
)

func newTemplateService(t *testing.T) (service.TemplateService, string, string) {
	t.Helper()
	templatesDir := t.TempDir()
	configsDir := t.TempDir()
	svc := service.NewTemplateService(&config.DirsConfig{
		TemplatesDir: templatesDir,
		ConfigsDir:   configsDir,
	})
	return svc, templatesDir, configsDir
}

func writeTemplate(t *testing.T, dir, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644))
}

func TestListTemplates_SortedAndSystemSource(t *testing.T) {
	svc, templatesDir, _ := newTemplateService(t)

	writeTemplate(t, templatesDir, "medical.json", `{
		"template_name": "Medical Records",
		"description": "HIPAA fields",
		"fields": [{"name": "patient name", "description": "full name", "strategy": "Fake Data"}]
	}`)
	writeTemplate(t, templatesDir, "legal.json", `{
		"template_name": "Legal Documents",
		"fields": [{"name": "client name", "description": "name", "strategy": "Entity Label"}]
	}`)
	writeTemplate(t, templatesDir, "notes.txt", "not a template")

	templates, err := svc.ListTemplates()

	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "Legal Documents", templates[0].TemplateName)
	assert.Equal(t, "Medical Records", templates[1].TemplateName)
	assert.Equal(t, domain.FieldSourceSystem, templates[0].Fields[0].Source)
}

func TestListTemplates_MissingDirIsEmpty(t *testing.T) {
	svc := service.NewTemplateService(&config.DirsConfig{
		TemplatesDir: "/nonexistent/templates",
		ConfigsDir:   t.TempDir(),
	})

	templates, err := svc.ListTemplates()

	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestGetTemplate(t *testing.T) {
	svc, templatesDir, _ := newTemplateService(t)
	writeTemplate(t, templatesDir, "medical.json", `{
		"template_name": "Medical Records",
		"fields": [{"name": "mrn", "description": "record number", "strategy": "Black Out"}]
	}`)

	tmpl, err := svc.GetTemplate("Medical Records")
	require.NoError(t, err)
	assert.Equal(t, "mrn", tmpl.Fields[0].Name)

	_, err = svc.GetTemplate("Unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	svc, _, configsDir := newTemplateService(t)

	cfg := &domain.RedactionConfig{
		Name: "My Hospital Config",
		Fields: []domain.FieldDefinition{
			{Name: "patient name", Description: "full name", Strategy: domain.StrategyFakeData},
		},
	}
	require.NoError(t, svc.SaveConfig(cfg))

	// Name is sanitized for the filename.
	_, err := os.Stat(filepath.Join(configsDir, "My_Hospital_Config.json"))
	require.NoError(t, err)

	got, err := svc.GetConfig("My Hospital Config")
	require.NoError(t, err)
	assert.Equal(t, "My Hospital Config", got.Name)
	assert.Equal(t, domain.FieldSourceCustom, got.Fields[0].Source)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSaveConfig_Validation(t *testing.T) {
	svc, _, _ := newTemplateService(t)

	err := svc.SaveConfig(&domain.RedactionConfig{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrEmptyFieldName)

	err = svc.SaveConfig(&domain.RedactionConfig{
		Name: "dupes",
		Fields: []domain.FieldDefinition{
			{Name: "ssn", Description: "a", Strategy: domain.StrategyBlackOut},
			{Name: "ssn", Description: "b", Strategy: domain.StrategyBlackOut},
		},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateField)
}

func TestListConfigs_Sorted(t *testing.T) {
	svc, _, _ := newTemplateService(t)

	for _, name := range []string{"zeta", "alpha"} {
		require.NoError(t, svc.SaveConfig(&domain.RedactionConfig{
			Name:   name,
			Fields: []domain.FieldDefinition{{Name: "ssn", Description: "x", Strategy: domain.StrategyBlackOut}},
		}))
	}

	configs, err := svc.ListConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "alpha", configs[0].Name)
	assert.Equal(t, "zeta", configs[1].Name)
}

func TestDeleteConfig(t *testing.T) {
	svc, _, _ := newTemplateService(t)

	require.NoError(t, svc.SaveConfig(&domain.RedactionConfig{
		Name:   "temp",
		Fields: []domain.FieldDefinition{{Name: "ssn", Description: "x", Strategy: domain.StrategyBlackOut}},
	}))

	require.NoError(t, svc.DeleteConfig("temp"))
	_, err := svc.GetConfig("temp")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteConfig("temp"), domain.ErrNotFound)
}
