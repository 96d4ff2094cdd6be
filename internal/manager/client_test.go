package manager

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, mux *http.ServeMux) *RealClient {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	session, err := Connect(context.Background(), testEndpoint(t, srv.URL), logr.Discard())
	require.NoError(t, err)
	t.Cleanup(session.Close)

	return NewClient(session)
}

func TestRealClientGetDevices(t *testing.T) {
	mux := loginMux(t, "tok")
	mux.HandleFunc("/dataservice/system/device/vedges", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"uuid":"u-1","deviceIP":"10.0.0.1","serialNumber":"S1","reachability":"reachable","cert-install-status":"Installed"},
			{"uuid":"u-2","serialNumber":"S2"}
		]}`))
	})

	client := testClient(t, mux)
	devices, err := client.GetDevices(context.Background(), CategoryEdges)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "u-1", devices[0].UUID)
	assert.Equal(t, "S1", devices[0].SerialNumber)
	assert.Equal(t, CertInstalled, devices[0].CertInstallStatus)
}

func TestRealClientCreateDevice(t *testing.T) {
	var got DeviceCreateRequest
	mux := loginMux(t, "tok")
	mux.HandleFunc("/dataservice/system/device", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	client := testClient(t, mux)
	err := client.CreateDevice(context.Background(), DeviceCreateRequest{
		DeviceIP:    "10.0.0.10",
		Username:    "admin",
		Password:    "pw",
		Personality: PersonalityController,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.10", got.DeviceIP)
	assert.Equal(t, PersonalityController, got.Personality)
}

func TestRealClientCreateDeviceRejected(t *testing.T) {
	mux := loginMux(t, "tok")
	mux.HandleFunc("/dataservice/system/device", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Unauthorized"))
	})

	client := testClient(t, mux)
	err := client.CreateDevice(context.Background(), DeviceCreateRequest{DeviceIP: "10.0.0.10"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestRealClientGetConfigGroups(t *testing.T) {
	mux := loginMux(t, "tok")
	// Unlike the legacy endpoints, config-group lists are a bare array.
	mux.HandleFunc("/dataservice/v1/config-group", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"branch","id":"cg-1"},{"name":"dc","id":"cg-2"}]`))
	})

	client := testClient(t, mux)
	groups, err := client.GetConfigGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "cg-1", groups[0].ID)
}

func TestRealClientAttachTemplate(t *testing.T) {
	mux := loginMux(t, "tok")
	mux.HandleFunc("/dataservice/template/device/config/attachfeature", func(w http.ResponseWriter, r *http.Request) {
		var payload TemplateAttachPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.DeviceTemplateList, 1)
		_, _ = w.Write([]byte(`{"id":"task-42"}`))
	})

	client := testClient(t, mux)
	taskID, err := client.AttachTemplate(context.Background(), TemplateAttachPayload{
		DeviceTemplateList: []DeviceTemplateEntry{{TemplateID: "t-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "task-42", taskID)
}

func TestRealClientGetTaskStatus(t *testing.T) {
	mux := loginMux(t, "tok")
	mux.HandleFunc("/dataservice/device/action/status/task-42", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"summary":{"status":"done-Success"}}`))
	})

	client := testClient(t, mux)
	status, err := client.GetTaskStatus(context.Background(), "task-42")
	require.NoError(t, err)
	assert.Equal(t, "done-Success", status.Status)
}

func TestRealClientServerVersion(t *testing.T) {
	mux := loginMux(t, "tok")
	mux.HandleFunc("/dataservice/client/about", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"version":"20.12.1"}}`))
	})

	client := testClient(t, mux)
	version, err := client.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "20.12.1", version)
}

func TestRealClientHierarchy(t *testing.T) {
	var created HierarchyNode
	mux := loginMux(t, "tok")
	mux.HandleFunc("/dataservice/v1/network-hierarchy", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusOK)
			return
		}
		_, _ = w.Write([]byte(`[{"name":"east","uuid":"h-1","data":{"label":"REGION","hierarchyId":{"regionId":1}}}]`))
	})

	client := testClient(t, mux)

	nodes, err := client.GetNetworkHierarchy(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, LabelRegion, nodes[0].Data.Label)
	assert.Equal(t, 1, nodes[0].Data.HierarchyID.RegionID)

	err = client.CreateHierarchyNode(context.Background(), HierarchyNode{Name: "west"})
	require.NoError(t, err)
	assert.Equal(t, "west", created.Name)
}

func TestRealClientErrorCarriesPath(t *testing.T) {
	mux := loginMux(t, "tok")
	mux.HandleFunc("/dataservice/template/device", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	client := testClient(t, mux)
	_, err := client.GetTemplates(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "dataservice/template/device", apiErr.Path)
	assert.Equal(t, "boom", apiErr.Body)
}
