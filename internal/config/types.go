// Package config defines the device inventory model and its YAML
// load/save/validation surface.
package config

// ManagerConfig holds the management plane connection details.
type ManagerConfig struct {
	URL      string `yaml:"url" mapstructure:"url"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Verify   bool   `yaml:"verify" mapstructure:"verify"`
}

// ControlComponent describes a controller or validator to register.
// The device class is decided by which inventory list it appears in.
type ControlComponent struct {
	IP       string `yaml:"ip" mapstructure:"ip"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	SystemIP string `yaml:"system_ip,omitempty" mapstructure:"system_ip"`
	SiteID   int    `yaml:"site_id,omitempty" mapstructure:"site_id"`
	Hostname string `yaml:"hostname,omitempty" mapstructure:"hostname"`
}

// Edge describes a pre-provisioned WAN edge device identified by its
// hardware serial. TemplateName and ConfigGroup are mutually exclusive;
// with neither set the device is left registered but unconfigured.
type Edge struct {
	Serial       string         `yaml:"serial" mapstructure:"serial"`
	SystemIP     string         `yaml:"system_ip" mapstructure:"system_ip"`
	SiteID       int            `yaml:"site_id" mapstructure:"site_id"`
	TemplateName string         `yaml:"template_name,omitempty" mapstructure:"template_name"`
	ConfigGroup  string         `yaml:"config_group,omitempty" mapstructure:"config_group"`
	Values       map[string]any `yaml:"values,omitempty" mapstructure:"values"`
}

// OffsiteConfig names an S3-compatible bucket that receives a copy of every
// successful backup. Credentials come from the environment, not the file.
type OffsiteConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Region   string `yaml:"region" mapstructure:"region"`
	Bucket   string `yaml:"bucket" mapstructure:"bucket"`
}

// Inventory is the complete device inventory for an orchestration run.
type Inventory struct {
	Manager     ManagerConfig      `yaml:"manager" mapstructure:"manager"`
	Controllers []ControlComponent `yaml:"controllers,omitempty" mapstructure:"controllers"`
	Validators  []ControlComponent `yaml:"validators,omitempty" mapstructure:"validators"`
	Edges       []Edge             `yaml:"edges,omitempty" mapstructure:"edges"`
	Offsite     *OffsiteConfig     `yaml:"offsite,omitempty" mapstructure:"offsite"`
}

// TotalDevices returns the number of devices across all classes.
func (inv *Inventory) TotalDevices() int {
	return len(inv.Controllers) + len(inv.Validators) + len(inv.Edges)
}

// ControlComponents returns the number of control plane devices.
func (inv *Inventory) ControlComponents() int {
	return len(inv.Controllers) + len(inv.Validators)
}
