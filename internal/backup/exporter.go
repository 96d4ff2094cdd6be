package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/samber/lo"

	"github.com/torbbang/sdwan-orbit/internal/manager"
)

// Catalog file names written by the catalog exporter.
const (
	templateCatalogFile    = "device_templates.json"
	configGroupCatalogFile = "config_groups.json"
)

// CatalogExporter is a catalog-level Exporter over the management API: it
// saves the device template and configuration group catalogs and recreates
// missing config groups on import. Full-fidelity engines with per-artifact
// payloads plug in through the Exporter interface instead.
type CatalogExporter struct {
	api interface {
		manager.TemplateManager
		manager.ConfigGroupManager
	}
	log logr.Logger
}

// NewCatalogExporter builds the default exporter.
func NewCatalogExporter(api manager.Client, log logr.Logger) *CatalogExporter {
	return &CatalogExporter{api: api, log: log}
}

// Export implements Exporter.
func (e *CatalogExporter) Export(ctx context.Context, workdir string, tags []string, saveRunning bool) error {
	_ = saveRunning // running config export needs the full engine
	e.log.V(1).Info("exporting catalogs", "workdir", workdir, "tags", tags)

	templates, err := e.api.GetTemplates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list device templates: %w", err)
	}
	if err := writeJSON(filepath.Join(workdir, templateCatalogFile), templates); err != nil {
		return err
	}

	groups, err := e.api.GetConfigGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list configuration groups: %w", err)
	}
	return writeJSON(filepath.Join(workdir, configGroupCatalogFile), groups)
}

// Import implements Exporter. Config groups absent from the server are
// recreated by name; device templates cannot be recreated from catalog
// data alone and are only reported.
func (e *CatalogExporter) Import(ctx context.Context, workdir string, tags []string, attach bool) error {
	_ = attach // attachment happens through the onboarding flow

	var groups []manager.ConfigGroup
	if err := readJSON(filepath.Join(workdir, configGroupCatalogFile), &groups); err != nil {
		return err
	}

	existing, err := e.api.GetConfigGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list configuration groups: %w", err)
	}
	existingNames := lo.Map(existing, func(g manager.ConfigGroup, _ int) string { return g.Name })

	for _, group := range groups {
		if lo.Contains(existingNames, group.Name) {
			e.log.V(1).Info("config-group already present", "configGroup", group.Name)
			continue
		}
		err := e.api.CreateConfigGroup(ctx, manager.ConfigGroupCreateRequest{
			Name:     group.Name,
			Solution: "sdwan",
		})
		if err != nil {
			return fmt.Errorf("failed to recreate config-group %q: %w", group.Name, err)
		}
		e.log.Info("recreated config-group", "configGroup", group.Name)
	}

	var templates []manager.Template
	if err := readJSON(filepath.Join(workdir, templateCatalogFile), &templates); err == nil && len(templates) > 0 {
		e.log.Info("device template catalog present; re-import requires a full export engine",
			"templates", len(templates))
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, into any) error {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
