package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/torbbang/sdwan-orbit/internal/manager"
)

// The network hierarchy API exists from version 20.7.
const (
	mrfMinMajor = 20
	mrfMinMinor = 7
)

// HierarchyReader is the management plane surface the MRF steps consume.
type HierarchyReader interface {
	ServerVersion(ctx context.Context) (string, error)
	GetNetworkHierarchy(ctx context.Context) ([]manager.HierarchyNode, error)
	CreateHierarchyNode(ctx context.Context, node manager.HierarchyNode) error
}

// supportsMRF reports whether a reported server version is at least 20.7.
func supportsMRF(version string) bool {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return major > mrfMinMajor || (major == mrfMinMajor && minor >= mrfMinMinor)
}

// backupMRF saves regions and subregions as one JSON file per node under
// workdir/mrf. Every failure here is a warning; MRF is an auxiliary
// artifact and never fails the backup.
func (m *Manager) backupMRF(ctx context.Context, workdir string) {
	version, err := m.hierarchy.ServerVersion(ctx)
	if err != nil {
		m.log.Error(err, "failed to read server version, skipping MRF backup")
		return
	}
	if !supportsMRF(version) {
		m.log.V(1).Info("server version below 20.7, skipping MRF backup", "version", version)
		return
	}

	nodes, err := m.hierarchy.GetNetworkHierarchy(ctx)
	if err != nil {
		m.log.Error(err, "failed to read network hierarchy, skipping MRF backup")
		return
	}

	regions := lo.Filter(nodes, func(n manager.HierarchyNode, _ int) bool {
		return n.Data.Label == manager.LabelRegion
	})
	subregions := lo.Filter(nodes, func(n manager.HierarchyNode, _ int) bool {
		return n.Data.Label == manager.LabelSubRegion
	})

	if len(regions) == 0 {
		m.log.V(1).Info("no MRF regions found")
		return
	}

	m.log.Info("backing up MRF hierarchy", "regions", len(regions), "subregions", len(subregions))

	saved := 0
	for _, region := range regions {
		// Region 0 is the implicit default and cannot be recreated.
		if region.Data.HierarchyID.RegionID == 0 {
			continue
		}
		if err := writeNode(filepath.Join(workdir, "mrf", "regions"), region); err != nil {
			m.log.Error(err, "failed to save region", "region", region.Name)
			continue
		}
		saved++
	}

	for _, subregion := range subregions {
		if err := writeNode(filepath.Join(workdir, "mrf", "subregions"), subregion); err != nil {
			m.log.Error(err, "failed to save subregion", "subregion", subregion.Name)
		}
	}
}

// restoreMRF recreates regions before subregions so parents exist first,
// files in sorted name order for determinism. Failures are warnings.
func (m *Manager) restoreMRF(ctx context.Context, workdir string) {
	mrfDir := filepath.Join(workdir, "mrf")
	if _, err := os.Stat(mrfDir); err != nil {
		m.log.V(1).Info("no MRF backup found, skipping")
		return
	}

	m.log.Info("restoring MRF hierarchy")
	m.restoreNodeDir(ctx, filepath.Join(mrfDir, "regions"))
	m.restoreNodeDir(ctx, filepath.Join(mrfDir, "subregions"))
}

func (m *Manager) restoreNodeDir(ctx context.Context, dir string) {
	// Glob results are sorted, which fixes the restore order.
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		m.log.Error(err, "failed to list MRF files", "dir", dir)
		return
	}

	for _, file := range files {
		data, err := os.ReadFile(file) // #nosec G304
		if err != nil {
			m.log.Error(err, "failed to read MRF file", "file", file)
			continue
		}

		var node manager.HierarchyNode
		if err := json.Unmarshal(data, &node); err != nil {
			m.log.Error(err, "failed to parse MRF file", "file", file)
			continue
		}

		// The server assigns fresh identifiers on creation.
		node.UUID = ""

		if err := m.hierarchy.CreateHierarchyNode(ctx, node); err != nil {
			m.log.Error(err, "failed to restore MRF node", "node", node.Name)
			continue
		}
		m.log.V(1).Info("restored MRF node", "node", node.Name)
	}
}

func writeNode(dir string, node manager.HierarchyNode) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, fmt.Sprintf("%s.json", node.Name)), data, 0o600)
}
