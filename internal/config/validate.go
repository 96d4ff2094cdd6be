package config

import (
	"fmt"
	"strings"
)

// Validate checks the inventory for errors that would otherwise surface
// halfway through an orchestration run.
func (inv *Inventory) Validate() error {
	if err := inv.Manager.validate(); err != nil {
		return fmt.Errorf("manager: %w", err)
	}

	for i, c := range inv.Controllers {
		if c.IP == "" {
			return fmt.Errorf("controllers[%d]: ip is required", i)
		}
	}
	for i, v := range inv.Validators {
		if v.IP == "" {
			return fmt.Errorf("validators[%d]: ip is required", i)
		}
	}

	for i, e := range inv.Edges {
		if err := e.validate(); err != nil {
			return fmt.Errorf("edges[%d]: %w", i, err)
		}
	}

	if inv.Offsite != nil {
		if inv.Offsite.Endpoint == "" || inv.Offsite.Bucket == "" {
			return fmt.Errorf("offsite: endpoint and bucket are required")
		}
	}

	return nil
}

func (m ManagerConfig) validate() error {
	if m.URL == "" {
		return fmt.Errorf("url is required")
	}
	if strings.Contains(m.URL, "://") && !strings.HasPrefix(m.URL, "http://") && !strings.HasPrefix(m.URL, "https://") {
		return fmt.Errorf("url scheme must be http or https")
	}
	if m.Username == "" {
		return fmt.Errorf("username is required")
	}
	if m.Password == "" {
		return fmt.Errorf("password is required")
	}
	if m.Port < 0 || m.Port > 65535 {
		return fmt.Errorf("port %d is out of range", m.Port)
	}
	return nil
}

func (e Edge) validate() error {
	if e.Serial == "" {
		return fmt.Errorf("serial is required")
	}
	if e.SystemIP == "" {
		return fmt.Errorf("system_ip is required")
	}
	if e.SiteID <= 0 {
		return fmt.Errorf("site_id is required")
	}
	if e.TemplateName != "" && e.ConfigGroup != "" {
		return fmt.Errorf("template_name and config_group are mutually exclusive")
	}
	return nil
}
