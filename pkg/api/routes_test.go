package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/cuemby/burrow/pkg/config"
	"github.com/cuemby/burrow/pkg/kube"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/types"
)

const (
	testAuthHeader = "x-auth-id"
	testMnemonic   = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

func init() {
	log.Init(log.Config{Level: log.ErrorLevel, JSONOutput: true})
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPResponse: config.ResponderConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"},
		},
		Auth: config.AuthConfig{AuthHeader: testAuthHeader},
	}
}

// newTestClientset builds a fake cluster whose pods report Running as soon
// as they are created.
func newTestClientset(objects ...runtime.Object) *fake.Clientset {
	cs := fake.NewSimpleClientset(objects...)
	cs.PrependReactor("create", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		pod := action.(k8stesting.CreateAction).GetObject().(*corev1.Pod)
		pod.Status.Phase = corev1.PodRunning
		return false, nil, nil
	})
	return cs
}

func newTestServer(cs *fake.Clientset) *Server {
	return NewServer(testConfig(), kube.NewManager(cs), "1.0.0")
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func authHeaders(tenant string) map[string]string {
	return map[string]string{testAuthHeader: tenant}
}

func testSpecJSON(t *testing.T, namespace string) []byte {
	t.Helper()
	mnemonic := testMnemonic
	spec := &types.DevnetSpec{
		Namespace:           namespace,
		BitcoinNodeUsername: "devnet",
		BitcoinNodePassword: "devnet",
		MinerMnemonic:       &mnemonic,
		FaucetMnemonic:      &mnemonic,
		ProjectManifest:     types.ProjectManifestConfig{Name: "demo"},
		Accounts: []types.AccountConfig{
			{Name: "deployer", Mnemonic: testMnemonic, Balance: 1_000_000},
		},
		DeploymentPlan: json.RawMessage(`{"id":0,"name":"devnet deployment"}`),
	}
	body, err := json.Marshal(spec)
	require.NoError(t, err)
	return body
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path     string
		expected PathParts
	}{
		{"/api/v1/", PathParts{}},
		{"/api/v1/some-route", PathParts{Route: "some-route"}},
		{"/api/v1/some-route/", PathParts{Route: "some-route"}},
		{"/api/v1/some-route/some-network", PathParts{Route: "some-route", Network: "some-network"}},
		{"/api/v1/some-route/some-network/", PathParts{Route: "some-route", Network: "some-network"}},
		{"/api/v1/some-route/some-network/some-subroute", PathParts{Route: "some-route", Network: "some-network", Subroute: "some-subroute"}},
		{"/api/v1/some-route/some-network/some-subroute/", PathParts{Route: "some-route", Network: "some-network", Subroute: "some-subroute"}},
		{"/api/v1/some-route/some-network/some-subroute/the/remaining/path", PathParts{Route: "some-route", Network: "some-network", Subroute: "some-subroute", Remainder: "the/remaining/path"}},
		{"/api/v1/some-route/some-network/some-subroute/the/remaining/path/", PathParts{Route: "some-route", Network: "some-network", Subroute: "some-subroute", Remainder: "the/remaining/path"}},
		{"/api/v1/some-route/some-network/some-subroute/the//remaining//path/", PathParts{Route: "some-route", Network: "some-network", Subroute: "some-subroute", Remainder: "the//remaining//path"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParsePath(tt.path), "path %s", tt.path)
	}
}

func TestInvalidPathsReturn400(t *testing.T) {
	s := newTestServer(newTestClientset())

	for _, path := range []string{"/path", "/api", "/api/v1", "/api/v1/network2"} {
		rec := doRequest(t, s, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
		assert.Equal(t, "invalid request path", rec.Body.String(), "path %s", path)
	}
}

func TestOptionsSucceedsOnAnyPath(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodOptions, "/api/v1/network/whatever", nil, map[string]string{
		"Origin": "http://example.com",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ok", rec.Body.String())
	assert.ElementsMatch(t,
		[]string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"},
		rec.Header().Values("Access-Control-Allow-Methods"),
	)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginEchoedOnExactMatch(t *testing.T) {
	s := newTestServer(newTestClientset())
	s.cfg.HTTPResponse.AllowedOrigins = []string{"http://one.example", "http://two.example"}

	rec := doRequest(t, s, http.MethodOptions, "/api/v1/status", nil, map[string]string{
		"Origin": "http://two.example",
	})
	assert.Equal(t, "http://two.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = doRequest(t, s, http.MethodOptions, "/api/v1/status", nil, map[string]string{
		"Origin": "http://evil.example",
	})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusReportsVersion(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/status", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version": "burrow v1.0.0"}`, rec.Body.String())
}

func TestNetworkCreationRequiresPost(t *testing.T) {
	s := newTestServer(newTestClientset())

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := doRequest(t, s, method, "/api/v1/networks", nil, authHeaders("test"))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "network creation must be a POST request", rec.Body.String())
	}
}

func TestNetworkCreationEmptyBody(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodPost, "/api/v1/networks", nil, authHeaders("test"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid configuration to create network: ")
}

func TestNetworkCreationRequiresAuthHeader(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodPost, "/api/v1/networks", testSpecJSON(t, "test"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing required auth header", rec.Body.String())
}

func TestNetworkRouteRejectsUnknownVerbs(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodPost, "/api/v1/network/test", nil, authHeaders("test"))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "can only GET/DELETE/HEAD at provided route", rec.Body.String())
}

func TestNetworkRouteRequiresNetworkID(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/network/", nil, authHeaders("test"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no network id provided", rec.Body.String())
}

func TestGetUndeployedNetwork(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/network/undeployed", nil, authHeaders("undeployed"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "network undeployed does not exist", rec.Body.String())
}

func TestGetNetworkForwardsClusterError(t *testing.T) {
	cs := newTestClientset()
	cs.PrependReactor("get", "namespaces", func(action k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, k8serrors.NewInternalError(fmt.Errorf("boom"))
	})
	s := newTestServer(cs)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/network/500_err", nil, authHeaders("500_err"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error getting namespace 500_err:")
}

func TestCommandsSubrouteNotImplemented(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/network/test/commands", nil, authHeaders("test"))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "commands route not implemented", rec.Body.String())
}

func TestProxyRejectsUnknownService(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/network/test/unknown-service/foo", nil, authHeaders("test"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request path", rec.Body.String())
}

func TestProxyRequiresAllAssets(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/network/test/stacks-blockchain/foo", nil, authHeaders("test"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not all devnet assets exist NAMESPACE: test", rec.Body.String())
}

func TestCreateGetCheckDeleteFlow(t *testing.T) {
	s := newTestServer(newTestClientset())
	headers := authHeaders("test")

	// HEAD before create: nothing exists
	rec := doRequest(t, s, http.MethodHead, "/api/v1/network/test", nil, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// create
	rec = doRequest(t, s, http.MethodPost, "/api/v1/networks", testSpecJSON(t, "test"), headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ok", rec.Body.String())

	// create again: already exists
	rec = doRequest(t, s, http.MethodPost, "/api/v1/networks", testSpecJSON(t, "test"), headers)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "network test already exists", rec.Body.String())

	// HEAD: assets exist now
	rec = doRequest(t, s, http.MethodHead, "/api/v1/network/test", nil, headers)
	assert.Equal(t, http.StatusOK, rec.Code)

	// get info with last-request metadata
	rec = doRequest(t, s, http.MethodGet, "/api/v1/network/test", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := struct {
		BitcoindNodeStatus string `json:"bitcoind_node_status"`
		Metadata           struct {
			SecsSinceLastRequest uint64 `json:"secs_since_last_request"`
		} `json:"metadata"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Running", payload.BitcoindNodeStatus)
	assert.LessOrEqual(t, payload.Metadata.SecsSinceLastRequest, uint64(1))

	// delete
	rec = doRequest(t, s, http.MethodDelete, "/api/v1/network/test", nil, headers)
	assert.Equal(t, http.StatusOK, rec.Code)

	// HEAD after delete: gone
	rec = doRequest(t, s, http.MethodHead, "/api/v1/network/test", nil, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAbsentNetwork(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodDelete, "/api/v1/network/test", nil, authHeaders("test"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error deleting network test: network test does not exist", rec.Body.String())
}

func TestForeignTenantIsForbidden(t *testing.T) {
	cs := newTestClientset(&corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: "victim", Labels: map[string]string{"name": "victim"}},
	})
	s := newTestServer(cs)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/network/victim", nil, authHeaders("intruder"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, cs.Actions())
}

func TestResponsesCarryCORSHeaders(t *testing.T) {
	s := newTestServer(newTestClientset())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/network/undeployed", nil, authHeaders("undeployed"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Values("Access-Control-Allow-Methods"))
}

func TestCancelledClusterCallReturns500(t *testing.T) {
	// A cluster call that fails with a cancelled context surfaces as a 500.
	cs := newTestClientset()
	cs.PrependReactor("get", "namespaces", func(action k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, context.Canceled
	})
	s := newTestServer(cs)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/network/test", nil, authHeaders("test"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
