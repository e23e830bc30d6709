package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/resources"
	"github.com/cuemby/burrow/pkg/types"
)

// APIPath is the prefix every tenant route sits under.
const APIPath = "/api/v1/"

// PathParts is the decomposition of a request path below APIPath. Empty
// strings mark absent segments; the remainder keeps its internal slashes
// untouched so proxied paths survive round-trips.
type PathParts struct {
	Route     string
	Network   string
	Subroute  string
	Remainder string
}

// ParsePath splits a request path into at most four parts. Leading and
// trailing slashes are dropped; slashes inside the remainder are preserved.
func ParsePath(path string) PathParts {
	trimmed := strings.Trim(strings.ReplaceAll(path, APIPath, ""), "/")
	parts := strings.Split(trimmed, "/")

	out := PathParts{Route: parts[0]}
	if len(parts) > 1 {
		out.Network = parts[1]
	}
	if len(parts) > 2 {
		out.Subroute = parts[2]
	}
	if len(parts) > 3 {
		out.Remainder = strings.Join(parts[3:], "/")
	}
	return out
}

// handleAPI is the single dispatcher for everything under the API prefix.
func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	rsp := NewResponder(s.cfg.HTTPResponse, r.Header)

	// Preflight requests succeed on any path.
	if r.Method == http.MethodOptions {
		rsp.Ok(w)
		return
	}

	parts := ParsePath(r.URL.Path)
	now := uint64(time.Now().Unix())

	switch parts.Route {
	case "status":
		s.handleStatus(w, r, rsp)

	case "networks":
		if r.Method != http.MethodPost {
			rsp.ErrMethodNotAllowed(w, "network creation must be a POST request")
			return
		}
		tenant, ok := s.tenant(r)
		if !ok {
			rsp.ErrBadRequest(w, "missing required auth header")
			return
		}
		s.handleCreate(w, r, rsp, tenant, now)

	case "network":
		if parts.Network == "" {
			rsp.ErrBadRequest(w, "no network id provided")
			return
		}
		tenant, ok := s.tenant(r)
		if !ok {
			rsp.ErrBadRequest(w, "missing required auth header")
			return
		}
		switch {
		case parts.Subroute == "":
			switch r.Method {
			case http.MethodGet:
				s.handleGet(w, r, rsp, parts.Network, tenant, now)
			case http.MethodDelete:
				s.handleDelete(w, r, rsp, parts.Network, tenant)
			case http.MethodHead:
				s.handleCheck(w, r, rsp, parts.Network, tenant)
			default:
				rsp.ErrMethodNotAllowed(w, "can only GET/DELETE/HEAD at provided route")
			}
		case parts.Subroute == "commands":
			rsp.ErrNotImplemented(w, "commands route not implemented")
		default:
			if parts.Network != tenant {
				de := types.NewForbidden()
				rsp.Respond(w, de.Code, de.Message)
				return
			}
			s.handleProxy(w, r, rsp, parts)
		}

	default:
		rsp.ErrBadRequest(w, "invalid request path")
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, rsp *Responder) {
	if r.Method != http.MethodGet {
		rsp.ErrMethodNotAllowed(w, "can only GET at provided route")
		return
	}
	body, err := json.Marshal(map[string]string{
		"version": fmt.Sprintf("burrow v%s", s.version),
	})
	if err != nil {
		rsp.ErrInternal(w, fmt.Sprintf("failed to parse version info: %s", err))
		return
	}
	rsp.OkJSON(w, body)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, rsp *Responder, tenant string, now uint64) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		rsp.ErrInternal(w, "failed to read request body")
		return
	}

	spec := &types.DevnetSpec{}
	if err := json.Unmarshal(body, spec); err != nil {
		rsp.ErrBadRequest(w, fmt.Sprintf("invalid configuration to create network: %s", err))
		return
	}

	if err := s.manager.Deploy(r.Context(), spec, tenant); err != nil {
		de := types.AsDevnetError(err)
		metrics.DevnetDeploysTotal.WithLabelValues("error").Inc()
		rsp.Respond(w, de.Code, de.Message)
		return
	}

	s.store.Touch(tenant, now)
	metrics.DevnetDeploysTotal.WithLabelValues("ok").Inc()
	rsp.Ok(w)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, rsp *Responder, network, tenant string, now uint64) {
	info, err := s.manager.GetInfo(r.Context(), network, tenant)
	if err != nil {
		de := types.AsDevnetError(err)
		rsp.Respond(w, de.Code, de.Message)
		return
	}

	payload := types.DevnetInfoWithMetadata{
		DevnetInfo: *info,
		Metadata: types.DevnetMetadata{
			SecsSinceLastRequest: s.store.Observe(tenant, now),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		rsp.ErrInternal(w, fmt.Sprintf("failed to form response body: NAMESPACE: %s, ERROR: %s", network, err))
		return
	}
	rsp.OkJSON(w, body)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, rsp *Responder, network, tenant string) {
	if err := s.manager.Delete(r.Context(), network, tenant); err != nil {
		de := types.AsDevnetError(err)
		metrics.DevnetDeletesTotal.WithLabelValues("error").Inc()
		rsp.Respond(w, de.Code, fmt.Sprintf("error deleting network %s: %s", network, de.Message))
		return
	}
	metrics.DevnetDeletesTotal.WithLabelValues("ok").Inc()
	rsp.Ok(w)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request, rsp *Responder, network, tenant string) {
	exists, err := s.manager.AnyAssetsExist(r.Context(), network, tenant)
	if err != nil {
		de := types.AsDevnetError(err)
		rsp.Respond(w, de.Code, de.Message)
		return
	}
	if !exists {
		rsp.ErrNotFound(w, "not found")
		return
	}
	rsp.Ok(w)
}

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request, rsp *Responder, parts PathParts) {
	service, ok := resources.ServiceFromPathToken(parts.Subroute)
	if !ok {
		rsp.ErrBadRequest(w, "invalid request path")
		return
	}

	exists, err := s.manager.AllAssetsExist(r.Context(), parts.Network)
	if err != nil {
		de := types.AsDevnetError(err)
		rsp.Respond(w, de.Code, de.Message)
		return
	}
	if !exists {
		rsp.ErrNotFound(w, fmt.Sprintf("not all devnet assets exist NAMESPACE: %s", parts.Network))
		return
	}

	port, _ := resources.UserFacingPort(service)
	forward := fmt.Sprintf("%s:%d", resources.ServiceURL(parts.Network, service), port)
	s.proxyRequest(w, r, rsp, service, forward, parts.Remainder)
}

func (s *Server) tenant(r *http.Request) (string, bool) {
	v := r.Header.Get(s.cfg.Auth.AuthHeader)
	return v, v != ""
}
