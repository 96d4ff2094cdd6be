package onboarding

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/samber/lo"

	"github.com/torbbang/sdwan-orbit/internal/manager"
)

// DefaultTaskTimeout bounds the wait for an asynchronous attachment job.
const DefaultTaskTimeout = 10 * time.Minute

// Reserved variable names projected into the fixed payload keys instead of
// being passed through as-is.
const (
	varSystemIP = "system_ip"
	varSiteID   = "site_id"
)

// Attacher resolves named configuration artifacts and drives the two-step
// attach protocol: resolve by name, associate, push variables, poll the
// asynchronous job.
type Attacher struct {
	api manager.Client
	log logr.Logger

	taskTimeout  time.Duration
	pollInterval time.Duration
}

// AttachOption adjusts attacher behavior.
type AttachOption func(*Attacher)

// WithTaskTimeout bounds the asynchronous job wait.
func WithTaskTimeout(d time.Duration) AttachOption {
	return func(a *Attacher) { a.taskTimeout = d }
}

// WithTaskPollInterval sets the sleep between job status reads.
func WithTaskPollInterval(d time.Duration) AttachOption {
	return func(a *Attacher) { a.pollInterval = d }
}

// NewAttacher builds an Attacher over the given management plane client.
func NewAttacher(api manager.Client, log logr.Logger, opts ...AttachOption) *Attacher {
	a := &Attacher{
		api:          api,
		log:          log,
		taskTimeout:  DefaultTaskTimeout,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AttachTemplate resolves a device template by exact name, submits the
// attachment for one device and polls the resulting job to completion.
func (a *Attacher) AttachTemplate(ctx context.Context, deviceUUID, templateName string, vars map[string]any) error {
	a.log.Info("attaching template", "template", templateName, "uuid", deviceUUID)

	templates, err := a.api.GetTemplates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list device templates: %w", err)
	}
	template, ok := lo.Find(templates, func(t manager.Template) bool { return t.Name == templateName })
	if !ok {
		return &TemplateNotFoundError{Name: templateName}
	}
	a.log.V(1).Info("resolved template", "template", templateName, "templateID", template.ID)

	devices, err := a.api.GetDevices(ctx, manager.CategoryEdges)
	if err != nil {
		return fmt.Errorf("failed to read edge inventory: %w", err)
	}
	device, ok := lo.Find(devices, func(d manager.Device) bool { return d.UUID == deviceUUID })
	if !ok {
		return &DeviceNotFoundError{Serial: deviceUUID}
	}

	payload := manager.TemplateAttachPayload{
		DeviceTemplateList: []manager.DeviceTemplateEntry{{
			TemplateID:     template.ID,
			Device:         []map[string]any{templateVariableRow(template.ID, device, vars)},
			IsEdited:       false,
			IsMasterEdited: false,
		}},
	}

	taskID, err := a.api.AttachTemplate(ctx, payload)
	if err != nil {
		return &AttachmentError{Message: "failed to attach template", Err: err}
	}
	a.log.Info("template attachment submitted", "taskID", taskID)

	if err := a.waitForTask(ctx, taskID); err != nil {
		return err
	}
	a.log.Info("template attached", "template", templateName, "uuid", deviceUUID)
	return nil
}

// templateVariableRow builds the flat variable record the template
// attachment schema requires. The reserved system_ip/site_id entries are
// projected into the fixed keys, never duplicated under their own names.
func templateVariableRow(templateID string, device manager.Device, vars map[string]any) map[string]any {
	deviceIP := device.DeviceIP
	if deviceIP == "" {
		deviceIP = fmt.Sprint(vars[varSystemIP])
	}
	hostname := device.HostName
	if hostname == "" {
		hostname = fmt.Sprintf("Edge%v", vars[varSiteID])
	}

	row := map[string]any{
		"csv-status":         "complete",
		"csv-deviceId":       device.UUID,
		"csv-deviceIP":       deviceIP,
		"csv-host-name":      hostname,
		"//system/host-name": hostname,
		"//system/system-ip": vars[varSystemIP],
		"//system/site-id":   fmt.Sprint(vars[varSiteID]),
		"csv-templateId":     templateID,
	}

	for name, value := range vars {
		if name == varSystemIP || name == varSiteID {
			continue
		}
		row[name] = value
	}
	return row
}

// AttachConfigGroup resolves a configuration group by exact name and
// associates the device with it. Association is the structural step;
// variable deployment afterwards is best-effort and degrades to a warning.
func (a *Attacher) AttachConfigGroup(ctx context.Context, deviceUUID, groupName string, vars map[string]any) error {
	a.log.Info("attaching config-group", "configGroup", groupName, "uuid", deviceUUID)

	groups, err := a.api.GetConfigGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list configuration groups: %w", err)
	}
	group, ok := lo.Find(groups, func(g manager.ConfigGroup) bool { return g.Name == groupName })
	if !ok {
		return &ConfigGroupNotFoundError{Name: groupName}
	}
	a.log.V(1).Info("resolved config-group", "configGroup", groupName, "groupID", group.ID)

	if err := a.api.AssociateDevice(ctx, group.ID, deviceUUID); err != nil {
		return &AttachmentError{Message: "failed to associate device with config-group", Err: err}
	}

	if len(vars) > 0 {
		if err := a.api.DeployVariables(ctx, group.ID, deviceUUID, variableList(vars)); err != nil {
			a.log.Error(err, "failed to deploy config-group variables", "configGroup", groupName, "uuid", deviceUUID)
		}
	}

	a.log.Info("config-group attached", "configGroup", groupName, "uuid", deviceUUID)
	return nil
}

// variableList flattens the variable map in sorted name order so payloads
// are deterministic.
func variableList(vars map[string]any) []manager.Variable {
	names := lo.Keys(vars)
	sort.Strings(names)

	list := make([]manager.Variable, 0, len(names))
	for _, name := range names {
		list = append(list, manager.Variable{Name: name, Value: vars[name]})
	}
	return list
}

// waitForTask polls an asynchronous job until it reports success, reports
// failure, or the timeout elapses. Transient status-read errors are
// swallowed; they never end the poll early.
func (a *Attacher) waitForTask(ctx context.Context, taskID string) error {
	a.log.Info("waiting for task", "taskID", taskID, "timeout", a.taskTimeout)

	start := time.Now()
	var lastProgress time.Duration

	for {
		status, err := a.api.GetTaskStatus(ctx, taskID)
		if err != nil {
			a.log.V(1).Info("task status read failed", "taskID", taskID, "error", err.Error())
		} else {
			switch {
			case strings.EqualFold(status.Status, "success"):
				a.log.Info("task completed", "taskID", taskID)
				return nil
			case strings.Contains(strings.ToLower(status.Status), "fail"):
				return &AttachmentError{Message: fmt.Sprintf("task %s failed: %s", taskID, status.Status)}
			}
		}

		elapsed := time.Since(start)
		if elapsed > a.taskTimeout {
			return &AttachmentError{Message: fmt.Sprintf("timeout waiting for task %s", taskID)}
		}
		if elapsed-lastProgress >= progressInterval {
			lastProgress = elapsed
			a.log.Info("still waiting for task", "taskID", taskID, "elapsed", elapsed.Round(time.Second))
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("task wait aborted: %w", ctx.Err())
		case <-time.After(a.pollInterval):
		}
	}
}
