package config

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
)

// RunWizard interactively scaffolds a minimal inventory: the management
// plane endpoint plus an optional first edge device. Device lists are meant
// to be grown by hand afterwards.
func RunWizard() (*Inventory, error) {
	inv := &Inventory{
		Manager: ManagerConfig{Username: "admin", Port: 443},
	}

	var portStr = "443"
	var addEdge bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Management plane URL").
				Placeholder("https://manager.example.com").
				Value(&inv.Manager.URL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("url is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Username").
				Value(&inv.Manager.Username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&inv.Manager.Password),
			huh.NewInput().
				Title("Port").
				Value(&portStr).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 || n > 65535 {
						return fmt.Errorf("port must be a number between 1 and 65535")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Add a first edge device?").
				Value(&addEdge),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard aborted: %w", err)
	}

	inv.Manager.Port, _ = strconv.Atoi(portStr)

	if addEdge {
		edge, err := runEdgeForm()
		if err != nil {
			return nil, err
		}
		inv.Edges = append(inv.Edges, edge)
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

func runEdgeForm() (Edge, error) {
	var edge Edge
	var siteStr string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Edge serial number").
				Value(&edge.Serial).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("serial is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("System IP").
				Placeholder("10.1.0.1").
				Value(&edge.SystemIP),
			huh.NewInput().
				Title("Site ID").
				Value(&siteStr).
				Validate(func(s string) error {
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("site id must be a number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Config group (optional, 20.12+)").
				Value(&edge.ConfigGroup),
		),
	)

	if err := form.Run(); err != nil {
		return Edge{}, fmt.Errorf("wizard aborted: %w", err)
	}

	edge.SiteID, _ = strconv.Atoi(siteStr)
	return edge, nil
}
