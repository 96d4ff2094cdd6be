package manager

import (
	"strconv"
	"strings"
)

// Device categories understood by the management plane inventory API.
const (
	CategoryControllers = "controllers"
	CategoryEdges       = "vedges"
)

// Personalities accepted by the device creation endpoint.
const (
	PersonalityController = "vsmart"
	PersonalityValidator  = "vbond"
)

// CertInstalled is the terminal certificate state reported for edge devices.
const CertInstalled = "Installed"

// Endpoint holds the connection parameters for the management plane.
// It is immutable after construction.
type Endpoint struct {
	URL       string
	Username  string
	Password  string
	Port      int
	VerifyTLS bool
}

// BaseURL returns the normalized https base URL including the port.
func (e Endpoint) BaseURL() string {
	url := e.URL
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	port := e.Port
	if port == 0 {
		port = 443
	}
	return strings.TrimSuffix(url, "/") + ":" + strconv.Itoa(port)
}

// Device is a single record from the management plane device inventory.
type Device struct {
	UUID              string `json:"uuid"`
	DeviceIP          string `json:"deviceIP"`
	SerialNumber      string `json:"serialNumber"`
	HostName          string `json:"host-name"`
	Personality       string `json:"personality"`
	Reachability      string `json:"reachability"`
	CertificateStatus string `json:"certificate-status"`
	CertInstallStatus string `json:"cert-install-status"`
}

// Ready reports whether the device is reachable with a valid certificate.
func (d Device) Ready() bool {
	if d.Reachability != "reachable" {
		return false
	}
	status := strings.ToLower(d.CertificateStatus)
	return status == "certinstalled" || status == "installed"
}

// DeviceCreateRequest is the payload for registering a control component.
type DeviceCreateRequest struct {
	DeviceIP    string `json:"deviceIP"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Personality string `json:"personality"`
	GenerateCSR bool   `json:"generateCSR"`
}

// Template is a device template catalog entry.
type Template struct {
	Name string `json:"templateName"`
	ID   string `json:"templateId"`
}

// ConfigGroup is a configuration group catalog entry.
type ConfigGroup struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// ConfigGroupCreateRequest is the payload for creating an empty
// configuration group.
type ConfigGroupCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Solution    string `json:"solution"`
}

// Variable is a single name/value pair pushed to a config-group device.
type Variable struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// TemplateAttachPayload is the request body for a feature template attachment.
type TemplateAttachPayload struct {
	DeviceTemplateList []DeviceTemplateEntry `json:"deviceTemplateList"`
}

// DeviceTemplateEntry binds one template to a set of device variable rows.
type DeviceTemplateEntry struct {
	TemplateID     string           `json:"templateId"`
	Device         []map[string]any `json:"device"`
	IsEdited       bool             `json:"isEdited"`
	IsMasterEdited bool             `json:"isMasterEdited"`
}

// TaskStatus is the last-known state of an asynchronous management plane job.
type TaskStatus struct {
	Status string
}

// Hierarchy node labels used by the network segmentation API.
const (
	LabelRegion    = "REGION"
	LabelSubRegion = "SUB_REGION"
)

// HierarchyNode is one entry of the network hierarchy (region or subregion).
type HierarchyNode struct {
	Name        string        `json:"name"`
	UUID        string        `json:"uuid,omitempty"`
	Description string        `json:"description,omitempty"`
	Data        HierarchyData `json:"data"`
}

// HierarchyData carries the segmentation attributes of a hierarchy node.
type HierarchyData struct {
	ParentUUID  string      `json:"parentUuid"`
	Label       string      `json:"label"`
	IsSecondary *bool       `json:"isSecondary,omitempty"`
	HierarchyID HierarchyID `json:"hierarchyId"`
}

// HierarchyID identifies a node inside the region/subregion numbering space.
type HierarchyID struct {
	RegionID    int `json:"regionId,omitempty"`
	SubRegionID int `json:"subRegionId,omitempty"`
}
