package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/resources"
)

// MutateRequestForProxy rewrites an inbound request to target an in-cluster
// service. The remainder path and the query string are carried over verbatim,
// internal slashes included.
func MutateRequestForProxy(r *http.Request, forwardHostPort, remainder string) (*http.Request, error) {
	query := ""
	if r.URL.RawQuery != "" {
		query = "?" + r.URL.RawQuery
	}

	target, err := url.Parse(fmt.Sprintf("http://%s/%s%s", forwardHostPort, remainder, query))
	if err != nil {
		return nil, fmt.Errorf("invalid forward url: %w", err)
	}

	out := r.Clone(r.Context())
	out.URL = target
	out.Host = target.Host
	out.RequestURI = ""
	return out, nil
}

// proxyRequest streams a request through to the in-cluster service and the
// upstream response back unchanged. Transport failures synthesize a gateway
// error; upstream status codes pass through untouched.
func (s *Server) proxyRequest(w http.ResponseWriter, r *http.Request, rsp *Responder, service resources.Service, forwardHostPort, remainder string) {
	outReq, err := MutateRequestForProxy(r, forwardHostPort, remainder)
	if err != nil {
		rsp.ErrInternal(w, err.Error())
		return
	}

	s.logger.Info().Str("url", outReq.URL.String()).Msg("forwarding request")

	resp, err := s.proxyClient.Do(outReq)
	if err != nil {
		metrics.ProxyRequestsTotal.WithLabelValues(string(service), "error").Inc()
		rsp.Respond(w, http.StatusBadGateway, fmt.Sprintf("error proxying request: %s", err))
		return
	}
	defer resp.Body.Close()

	header := w.Header()
	for key, values := range resp.Header {
		for _, value := range values {
			header.Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		s.logger.Error().Err(err).Msg("error streaming upstream response")
	}
	metrics.ProxyRequestsTotal.WithLabelValues(string(service), "ok").Inc()
}
