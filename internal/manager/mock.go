package manager

import "context"

// MockClient is a Func-field test double for Client. Unset funcs return
// zero values so tests only wire the calls they care about.
type MockClient struct {
	CreateDeviceFunc        func(ctx context.Context, req DeviceCreateRequest) error
	GetDevicesFunc          func(ctx context.Context, category string) ([]Device, error)
	GetAttachedConfigFunc   func(ctx context.Context, uuid string) (string, error)
	GetTemplatesFunc        func(ctx context.Context) ([]Template, error)
	AttachTemplateFunc      func(ctx context.Context, payload TemplateAttachPayload) (string, error)
	GetConfigGroupsFunc     func(ctx context.Context) ([]ConfigGroup, error)
	CreateConfigGroupFunc   func(ctx context.Context, req ConfigGroupCreateRequest) error
	AssociateDeviceFunc     func(ctx context.Context, groupID, deviceUUID string) error
	DeployVariablesFunc     func(ctx context.Context, groupID, deviceUUID string, vars []Variable) error
	GetTaskStatusFunc       func(ctx context.Context, taskID string) (TaskStatus, error)
	ServerVersionFunc       func(ctx context.Context) (string, error)
	GetNetworkHierarchyFunc func(ctx context.Context) ([]HierarchyNode, error)
	CreateHierarchyNodeFunc func(ctx context.Context, node HierarchyNode) error
}

func (m *MockClient) CreateDevice(ctx context.Context, req DeviceCreateRequest) error {
	if m.CreateDeviceFunc == nil {
		return nil
	}
	return m.CreateDeviceFunc(ctx, req)
}

func (m *MockClient) GetDevices(ctx context.Context, category string) ([]Device, error) {
	if m.GetDevicesFunc == nil {
		return nil, nil
	}
	return m.GetDevicesFunc(ctx, category)
}

func (m *MockClient) GetAttachedConfig(ctx context.Context, uuid string) (string, error) {
	if m.GetAttachedConfigFunc == nil {
		return "", nil
	}
	return m.GetAttachedConfigFunc(ctx, uuid)
}

func (m *MockClient) GetTemplates(ctx context.Context) ([]Template, error) {
	if m.GetTemplatesFunc == nil {
		return nil, nil
	}
	return m.GetTemplatesFunc(ctx)
}

func (m *MockClient) AttachTemplate(ctx context.Context, payload TemplateAttachPayload) (string, error) {
	if m.AttachTemplateFunc == nil {
		return "", nil
	}
	return m.AttachTemplateFunc(ctx, payload)
}

func (m *MockClient) GetConfigGroups(ctx context.Context) ([]ConfigGroup, error) {
	if m.GetConfigGroupsFunc == nil {
		return nil, nil
	}
	return m.GetConfigGroupsFunc(ctx)
}

func (m *MockClient) CreateConfigGroup(ctx context.Context, req ConfigGroupCreateRequest) error {
	if m.CreateConfigGroupFunc == nil {
		return nil
	}
	return m.CreateConfigGroupFunc(ctx, req)
}

func (m *MockClient) AssociateDevice(ctx context.Context, groupID, deviceUUID string) error {
	if m.AssociateDeviceFunc == nil {
		return nil
	}
	return m.AssociateDeviceFunc(ctx, groupID, deviceUUID)
}

func (m *MockClient) DeployVariables(ctx context.Context, groupID, deviceUUID string, vars []Variable) error {
	if m.DeployVariablesFunc == nil {
		return nil
	}
	return m.DeployVariablesFunc(ctx, groupID, deviceUUID, vars)
}

func (m *MockClient) GetTaskStatus(ctx context.Context, taskID string) (TaskStatus, error) {
	if m.GetTaskStatusFunc == nil {
		return TaskStatus{}, nil
	}
	return m.GetTaskStatusFunc(ctx, taskID)
}

func (m *MockClient) ServerVersion(ctx context.Context) (string, error) {
	if m.ServerVersionFunc == nil {
		return "", nil
	}
	return m.ServerVersionFunc(ctx)
}

func (m *MockClient) GetNetworkHierarchy(ctx context.Context) ([]HierarchyNode, error) {
	if m.GetNetworkHierarchyFunc == nil {
		return nil, nil
	}
	return m.GetNetworkHierarchyFunc(ctx)
}

func (m *MockClient) CreateHierarchyNode(ctx context.Context, node HierarchyNode) error {
	if m.CreateHierarchyNodeFunc == nil {
		return nil
	}
	return m.CreateHierarchyNodeFunc(ctx, node)
}
