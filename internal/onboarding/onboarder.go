// Package onboarding drives devices through the management plane onboarding
// lifecycle: control component registration, edge discovery confirmation,
// certificate waits and configuration attachment.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-logr/logr"
	"github.com/samber/lo"

	"github.com/torbbang/sdwan-orbit/internal/config"
	"github.com/torbbang/sdwan-orbit/internal/manager"
)

// Defaults for the onboarding poll loops.
const (
	DefaultPassword     = "admin"
	DefaultCertTimeout  = 5 * time.Minute
	DefaultPollInterval = 10 * time.Second
)

// Onboarder registers control plane devices and confirms pre-provisioned
// edges against a single management plane session.
type Onboarder struct {
	api      manager.Client
	log      logr.Logger
	attacher *Attacher

	defaultPassword string
	certTimeout     time.Duration
	pollInterval    time.Duration
}

// Option adjusts onboarder behavior.
type Option func(*Onboarder)

// WithDefaultPassword overrides the well-known initial device password
// tried before each spec's own password.
func WithDefaultPassword(pw string) Option {
	return func(o *Onboarder) { o.defaultPassword = pw }
}

// WithCertTimeout bounds the per-edge certificate install wait.
func WithCertTimeout(d time.Duration) Option {
	return func(o *Onboarder) { o.certTimeout = d }
}

// WithPollInterval sets the sleep between poll sweeps.
func WithPollInterval(d time.Duration) Option {
	return func(o *Onboarder) { o.pollInterval = d }
}

// New builds an Onboarder over the given management plane client.
func New(api manager.Client, log logr.Logger, opts ...Option) *Onboarder {
	o := &Onboarder{
		api:             api,
		log:             log,
		defaultPassword: DefaultPassword,
		certTimeout:     DefaultCertTimeout,
		pollInterval:    DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.attacher = NewAttacher(api, log, WithTaskPollInterval(o.pollInterval))
	return o
}

// OnboardControllers registers the controllers and returns their
// identifiers in input order.
func (o *Onboarder) OnboardControllers(ctx context.Context, specs []config.ControlComponent, skipExisting bool) ([]string, error) {
	return o.onboardControlPlane(ctx, specs, manager.PersonalityController, "controller", skipExisting)
}

// OnboardValidators registers the validators and returns their identifiers
// in input order.
func (o *Onboarder) OnboardValidators(ctx context.Context, specs []config.ControlComponent, skipExisting bool) ([]string, error) {
	return o.onboardControlPlane(ctx, specs, manager.PersonalityValidator, "validator", skipExisting)
}

func (o *Onboarder) onboardControlPlane(ctx context.Context, specs []config.ControlComponent, personality, class string, skipExisting bool) ([]string, error) {
	o.log.Info("onboarding control components", "class", class, "count", len(specs))

	var alreadyOnboarded []string
	if skipExisting {
		alreadyOnboarded = o.onboardedIPs(ctx)
	}

	uuids := make([]string, 0, len(specs))
	for i, spec := range specs {
		o.log.Info("processing control component", "class", class, "index", i+1, "total", len(specs), "ip", spec.IP)

		if lo.Contains(alreadyOnboarded, spec.IP) {
			o.log.Info("device already onboarded, skipping", "ip", spec.IP)
			if uuid := o.deviceUUIDByIP(ctx, spec.IP); uuid != "" {
				uuids = append(uuids, uuid)
			}
			continue
		}

		uuid, err := o.registerControlComponent(ctx, spec, personality)
		if err != nil {
			return nil, fmt.Errorf("failed to onboard %s %s: %w", class, spec.IP, err)
		}
		uuids = append(uuids, uuid)
		o.log.Info("control component onboarded", "class", class, "ip", spec.IP, "uuid", uuid)
	}

	return uuids, nil
}

// registerControlComponent tries each credential candidate in order: the
// well-known default password first, then the inventory's own. An auth-class
// rejection moves to the next candidate; any other failure aborts
// immediately. All candidates rejected yields a CredentialError carrying
// every attempt.
func (o *Onboarder) registerControlComponent(ctx context.Context, spec config.ControlComponent, personality string) (string, error) {
	candidates := []string{o.defaultPassword}
	if spec.Password != "" && spec.Password != o.defaultPassword {
		candidates = append(candidates, spec.Password)
	}

	registered := false
	var attempts []error
	for _, password := range candidates {
		err := o.api.CreateDevice(ctx, manager.DeviceCreateRequest{
			DeviceIP:    spec.IP,
			Username:    "admin",
			Password:    password,
			Personality: personality,
			GenerateCSR: false,
		})
		if err == nil {
			registered = true
			break
		}
		if manager.IsUnauthorized(err) {
			o.log.V(1).Info("credential candidate rejected", "ip", spec.IP)
			attempts = append(attempts, err)
			continue
		}
		return "", err
	}
	if !registered {
		return "", &CredentialError{DeviceIP: spec.IP, Err: errors.Join(attempts...)}
	}

	uuid := o.deviceUUIDByIP(ctx, spec.IP)
	if uuid == "" {
		return "", &ResolutionError{DeviceIP: spec.IP}
	}
	return uuid, nil
}

// OnboardEdges confirms pre-discovered edges, waits for certificate
// installation and attaches their configuration profile. A missing serial
// aborts the whole batch: it usually signals an inventory or ordering
// problem affecting every remaining device.
func (o *Onboarder) OnboardEdges(ctx context.Context, edges []config.Edge, skipExisting bool) ([]string, error) {
	o.log.Info("onboarding edge devices", "count", len(edges))

	uuids := make([]string, 0, len(edges))
	for i, edge := range edges {
		o.log.Info("processing edge", "index", i+1, "total", len(edges),
			"serial", edge.Serial, "systemIP", edge.SystemIP, "siteID", edge.SiteID)

		device, found := o.findEdge(ctx, edge.Serial)
		if !found {
			return nil, &DeviceNotFoundError{Serial: edge.Serial}
		}

		if skipExisting && device.CertInstallStatus == manager.CertInstalled {
			o.log.Info("edge certificate already installed, skipping", "serial", edge.Serial, "uuid", device.UUID)
			uuids = append(uuids, device.UUID)
			continue
		}

		if err := o.waitForCertificate(ctx, device.UUID); err != nil {
			return nil, fmt.Errorf("failed to onboard edge %s: %w", edge.Serial, err)
		}
		uuids = append(uuids, device.UUID)
		o.log.Info("edge certificate installed", "serial", edge.Serial, "uuid", device.UUID)

		if err := o.attachProfile(ctx, edge, device.UUID); err != nil {
			return nil, fmt.Errorf("failed to onboard edge %s: %w", edge.Serial, err)
		}
	}

	o.log.Info("edge onboarding complete", "count", len(uuids))
	return uuids, nil
}

func (o *Onboarder) attachProfile(ctx context.Context, edge config.Edge, uuid string) error {
	switch {
	case edge.TemplateName != "":
		o.log.Info("attaching template", "template", edge.TemplateName, "serial", edge.Serial)
		return o.attacher.AttachTemplate(ctx, uuid, edge.TemplateName, mergeVariables(edge))
	case edge.ConfigGroup != "":
		o.log.Info("attaching config-group", "configGroup", edge.ConfigGroup, "serial", edge.Serial)
		return o.attacher.AttachConfigGroup(ctx, uuid, edge.ConfigGroup, mergeVariables(edge))
	default:
		o.log.Info("no template or config-group specified, leaving edge unconfigured", "serial", edge.Serial)
		return nil
	}
}

// mergeVariables builds the attachment variable map: system_ip and site_id
// from the inventory entry plus the caller-supplied extras, extras winning
// on clash.
func mergeVariables(edge config.Edge) map[string]any {
	vars := map[string]any{
		"system_ip": edge.SystemIP,
		"site_id":   edge.SiteID,
	}
	for k, v := range edge.Values {
		vars[k] = v
	}
	return vars
}

// WaitForDevices polls combined reachability-and-certificate readiness for
// the given identifiers.
func (o *Onboarder) WaitForDevices(ctx context.Context, uuids []string, timeout time.Duration) error {
	waiter := NewWaiter(o.log, timeout, o.pollInterval)
	return waiter.WaitUntilReady(ctx, uuids, o.deviceReady)
}

func (o *Onboarder) waitForCertificate(ctx context.Context, uuid string) error {
	o.log.Info("waiting for certificate installation", "uuid", uuid)
	waiter := NewWaiter(o.log, o.certTimeout, o.pollInterval)
	return waiter.WaitUntilReady(ctx, []string{uuid}, o.certificateInstalled)
}

func (o *Onboarder) deviceReady(ctx context.Context, uuid string) (bool, error) {
	for _, category := range []string{manager.CategoryControllers, manager.CategoryEdges} {
		devices, err := o.api.GetDevices(ctx, category)
		if err != nil {
			return false, err
		}
		if device, ok := lo.Find(devices, func(d manager.Device) bool { return d.UUID == uuid }); ok {
			return device.Ready(), nil
		}
	}
	return false, nil
}

func (o *Onboarder) certificateInstalled(ctx context.Context, uuid string) (bool, error) {
	devices, err := o.api.GetDevices(ctx, manager.CategoryEdges)
	if err != nil {
		return false, err
	}
	device, ok := lo.Find(devices, func(d manager.Device) bool { return d.UUID == uuid })
	return ok && device.CertInstallStatus == manager.CertInstalled, nil
}

// findEdge resolves an edge by hardware serial, or by direct identifier
// match when the given value is already a UUID.
func (o *Onboarder) findEdge(ctx context.Context, serial string) (manager.Device, bool) {
	devices, err := o.api.GetDevices(ctx, manager.CategoryEdges)
	if err != nil {
		o.log.V(1).Info("failed to list edge inventory", "error", err.Error())
		return manager.Device{}, false
	}
	return lo.Find(devices, func(d manager.Device) bool {
		return d.SerialNumber == serial || d.UUID == serial
	})
}

// Patterns for the interface-0 address bound in rendered device
// configuration. This extraction is a heuristic: when it misses, the
// device's reported management IP is used instead. Replace with a direct
// inventory query if the management plane ever grows one.
var (
	vpnZeroIPv4 = regexp.MustCompile(`vpn 0[\s\S]+?ip\saddress\s(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`)
	vpnZeroIPv6 = regexp.MustCompile(`vpn 0[\s\S]+?ipv6\saddress\s([0-9a-fA-F:]+)`)
)

// onboardedIPs collects the management IPs of devices already registered,
// preferring the address bound in each device's attached configuration.
// Failures degrade to the reported management IP, never to an error.
func (o *Onboarder) onboardedIPs(ctx context.Context) []string {
	devices, err := o.api.GetDevices(ctx, manager.CategoryControllers)
	if err != nil {
		o.log.Error(err, "failed to list onboarded devices")
		return nil
	}

	var ips []string
	for _, device := range devices {
		configText, err := o.api.GetAttachedConfig(ctx, device.UUID)
		if err != nil {
			o.log.V(1).Info("failed to read attached config", "uuid", device.UUID, "error", err.Error())
			if device.DeviceIP != "" {
				ips = append(ips, device.DeviceIP)
			}
			continue
		}
		ips = append(ips, extractManagementIPs(configText, device.DeviceIP)...)
	}
	return ips
}

func extractManagementIPs(configText, fallback string) []string {
	var ips []string
	if m := vpnZeroIPv4.FindStringSubmatch(configText); m != nil {
		ips = append(ips, m[1])
	} else if fallback != "" {
		ips = append(ips, fallback)
	}
	if m := vpnZeroIPv6.FindStringSubmatch(configText); m != nil {
		ips = append(ips, m[1])
	}
	return ips
}

func (o *Onboarder) deviceUUIDByIP(ctx context.Context, ip string) string {
	devices, err := o.api.GetDevices(ctx, manager.CategoryControllers)
	if err != nil {
		o.log.V(1).Info("failed to resolve device by IP", "ip", ip, "error", err.Error())
		return ""
	}
	if device, ok := lo.Find(devices, func(d manager.Device) bool { return d.DeviceIP == ip }); ok {
		return device.UUID
	}
	return ""
}
