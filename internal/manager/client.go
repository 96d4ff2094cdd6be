// Package manager wraps the device management plane REST API behind narrow
// interfaces so that onboarding and backup logic can be tested without a
// live controller.
package manager

import (
	"context"
	"fmt"
	"strings"
)

// DeviceInventory covers device registration and inventory reads.
type DeviceInventory interface {
	// CreateDevice registers a control component. Idempotency is the
	// caller's concern; the management plane rejects duplicates.
	CreateDevice(ctx context.Context, req DeviceCreateRequest) error

	// GetDevices lists the inventory for a device category
	// (CategoryControllers or CategoryEdges).
	GetDevices(ctx context.Context, category string) ([]Device, error)

	// GetAttachedConfig returns the rendered configuration text currently
	// attached to a device.
	GetAttachedConfig(ctx context.Context, uuid string) (string, error)
}

// TemplateManager covers the legacy device template surface.
type TemplateManager interface {
	GetTemplates(ctx context.Context) ([]Template, error)

	// AttachTemplate submits a template attachment and returns the
	// asynchronous task identifier tracking it.
	AttachTemplate(ctx context.Context, payload TemplateAttachPayload) (string, error)
}

// ConfigGroupManager covers the configuration group surface (20.12+).
type ConfigGroupManager interface {
	GetConfigGroups(ctx context.Context) ([]ConfigGroup, error)
	CreateConfigGroup(ctx context.Context, req ConfigGroupCreateRequest) error
	AssociateDevice(ctx context.Context, groupID, deviceUUID string) error

	// DeployVariables pushes per-device variable values. Callers treat a
	// failure here as best-effort.
	DeployVariables(ctx context.Context, groupID, deviceUUID string, vars []Variable) error
}

// TaskMonitor reads the status of asynchronous management plane jobs.
type TaskMonitor interface {
	GetTaskStatus(ctx context.Context, taskID string) (TaskStatus, error)
}

// HierarchyManager covers the network hierarchy (MRF region) surface.
type HierarchyManager interface {
	ServerVersion(ctx context.Context) (string, error)
	GetNetworkHierarchy(ctx context.Context) ([]HierarchyNode, error)
	CreateHierarchyNode(ctx context.Context, node HierarchyNode) error
}

// Client bundles every management plane surface consumed by this module.
type Client interface {
	DeviceInventory
	TemplateManager
	ConfigGroupManager
	TaskMonitor
	HierarchyManager
}

// RealClient implements Client over an authenticated Session.
type RealClient struct {
	session *Session
}

// NewClient wraps a connected session.
func NewClient(session *Session) *RealClient {
	return &RealClient{session: session}
}

// CreateDevice implements DeviceInventory.
func (c *RealClient) CreateDevice(ctx context.Context, req DeviceCreateRequest) error {
	resp, err := c.session.Post(ctx, "dataservice/system/device", req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &APIError{StatusCode: resp.StatusCode, Path: "dataservice/system/device", Body: string(resp.Body)}
	}
	return nil
}

// GetDevices implements DeviceInventory.
func (c *RealClient) GetDevices(ctx context.Context, category string) ([]Device, error) {
	var out struct {
		Data []Device `json:"data"`
	}
	if err := c.getJSON(ctx, "dataservice/system/device/"+category, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetAttachedConfig implements DeviceInventory.
func (c *RealClient) GetAttachedConfig(ctx context.Context, uuid string) (string, error) {
	var out struct {
		Config string `json:"config"`
	}
	if err := c.getJSON(ctx, "dataservice/template/config/attached/"+uuid, &out); err != nil {
		return "", err
	}
	return out.Config, nil
}

// GetTemplates implements TemplateManager.
func (c *RealClient) GetTemplates(ctx context.Context) ([]Template, error) {
	var out struct {
		Data []Template `json:"data"`
	}
	if err := c.getJSON(ctx, "dataservice/template/device", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AttachTemplate implements TemplateManager.
func (c *RealClient) AttachTemplate(ctx context.Context, payload TemplateAttachPayload) (string, error) {
	resp, err := c.session.Post(ctx, "dataservice/template/device/config/attachfeature", payload)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", &APIError{StatusCode: resp.StatusCode, Path: "dataservice/template/device/config/attachfeature", Body: string(resp.Body)}
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// GetConfigGroups implements ConfigGroupManager. Unlike most endpoints the
// config-group list is a bare JSON array, not wrapped in a data envelope.
func (c *RealClient) GetConfigGroups(ctx context.Context) ([]ConfigGroup, error) {
	resp, err := c.session.Get(ctx, "dataservice/v1/config-group")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &APIError{StatusCode: resp.StatusCode, Path: "dataservice/v1/config-group", Body: string(resp.Body)}
	}

	var groups []ConfigGroup
	if err := resp.Decode(&groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateConfigGroup implements ConfigGroupManager.
func (c *RealClient) CreateConfigGroup(ctx context.Context, req ConfigGroupCreateRequest) error {
	resp, err := c.session.Post(ctx, "dataservice/v1/config-group", req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &APIError{StatusCode: resp.StatusCode, Path: "dataservice/v1/config-group", Body: string(resp.Body)}
	}
	return nil
}

// AssociateDevice implements ConfigGroupManager.
func (c *RealClient) AssociateDevice(ctx context.Context, groupID, deviceUUID string) error {
	path := fmt.Sprintf("dataservice/v1/config-group/%s/device/associate", groupID)
	payload := map[string]any{
		"devices": []map[string]string{{"id": deviceUUID}},
	}

	resp, err := c.session.Post(ctx, path, payload)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &APIError{StatusCode: resp.StatusCode, Path: path, Body: string(resp.Body)}
	}
	return nil
}

// DeployVariables implements ConfigGroupManager.
func (c *RealClient) DeployVariables(ctx context.Context, groupID, deviceUUID string, vars []Variable) error {
	path := fmt.Sprintf("dataservice/v1/config-group/%s/device/variables", groupID)
	payload := map[string]any{
		"devices": []map[string]any{{
			"id":        deviceUUID,
			"variables": vars,
		}},
	}

	resp, err := c.session.Post(ctx, path, payload)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &APIError{StatusCode: resp.StatusCode, Path: path, Body: string(resp.Body)}
	}
	return nil
}

// GetTaskStatus implements TaskMonitor.
func (c *RealClient) GetTaskStatus(ctx context.Context, taskID string) (TaskStatus, error) {
	var out struct {
		Summary struct {
			Status string `json:"status"`
		} `json:"summary"`
	}
	if err := c.getJSON(ctx, "dataservice/device/action/status/"+taskID, &out); err != nil {
		return TaskStatus{}, err
	}
	return TaskStatus{Status: out.Summary.Status}, nil
}

// ServerVersion implements HierarchyManager.
func (c *RealClient) ServerVersion(ctx context.Context) (string, error) {
	var out struct {
		Data struct {
			Version string `json:"version"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, "dataservice/client/about", &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Data.Version), nil
}

// GetNetworkHierarchy implements HierarchyManager.
func (c *RealClient) GetNetworkHierarchy(ctx context.Context) ([]HierarchyNode, error) {
	resp, err := c.session.Get(ctx, "dataservice/v1/network-hierarchy")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &APIError{StatusCode: resp.StatusCode, Path: "dataservice/v1/network-hierarchy", Body: string(resp.Body)}
	}

	var nodes []HierarchyNode
	if err := resp.Decode(&nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// CreateHierarchyNode implements HierarchyManager.
func (c *RealClient) CreateHierarchyNode(ctx context.Context, node HierarchyNode) error {
	resp, err := c.session.Post(ctx, "dataservice/v1/network-hierarchy", node)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &APIError{StatusCode: resp.StatusCode, Path: "dataservice/v1/network-hierarchy", Body: string(resp.Body)}
	}
	return nil
}

func (c *RealClient) getJSON(ctx context.Context, path string, into any) error {
	resp, err := c.session.Get(ctx, path)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &APIError{StatusCode: resp.StatusCode, Path: path, Body: string(resp.Body)}
	}
	return resp.Decode(into)
}
