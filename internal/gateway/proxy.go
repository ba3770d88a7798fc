package gateway

import (
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"github.com/gonzalo9292/myworkout/internal/telemetry/metrics"
	"github.com/gonzalo9292/myworkout/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	UpstreamCore      = "core"
	UpstreamAnalytics = "analytics"
)

// Upstream describes where a path prefix is forwarded to.
type Upstream struct {
	Name   string
	Target *url.URL
	// prefix removed from the incoming path before forwarding, empty keeps the path as is
	StripPrefix string
}

// NewProxy forwards to the upstream target, rewriting Host and setting X-Forwarded-* headers.
func NewProxy(upstream Upstream, transport http.RoundTripper, metricsManager *metrics.Manager) *httputil.ReverseProxy {
	if transport == nil {
		transport = otelhttp.NewTransport(http.DefaultTransport)
	}

	count := func(status int) {
		if metricsManager == nil {
			return
		}
		metricsManager.CounterProxiedRequests.WithLabelValues(upstream.Name, strconv.Itoa(status)).Inc()
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			if upstream.StripPrefix != "" {
				pr.Out.URL.Path = stripPrefix(pr.In.URL.Path, upstream.StripPrefix)
				pr.Out.URL.RawPath = ""
			}
			pr.SetURL(upstream.Target)
			pr.SetXForwarded()
			// upstreams key rate limits on the client ip, never take it from the client
			pr.Out.Header.Del("X-Real-Ip")
			if clientIP, _, err := net.SplitHostPort(pr.In.RemoteAddr); err == nil {
				pr.Out.Header.Set("X-Real-Ip", clientIP)
			}
		},
		Transport: transport,
		ModifyResponse: func(resp *http.Response) error {
			count(resp.StatusCode)
			dropCorsHeaders(resp.Header)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Errorf("proxy [%s] %s %s: %s", upstream.Name, r.Method, r.URL.Path, err)
			count(http.StatusBadGateway)
			pkg.WriteJSONError(w, http.StatusBadGateway, "upstream unavailable")
		},
	}
}

// dropCorsHeaders removes the upstream CORS answer, the gateway's Cors middleware already wrote its own.
func dropCorsHeaders(header http.Header) {
	for name := range header {
		if strings.HasPrefix(name, "Access-Control-") {
			header.Del(name)
		}
	}

	var vary []string
	for _, v := range header.Values("Vary") {
		for _, field := range strings.Split(v, ",") {
			field = strings.TrimSpace(field)
			if field != "" && !strings.EqualFold(field, "Origin") {
				vary = append(vary, field)
			}
		}
	}
	header.Del("Vary")
	if len(vary) > 0 {
		header.Set("Vary", strings.Join(vary, ", "))
	}
}

func stripPrefix(path, prefix string) string {
	stripped := strings.TrimPrefix(path, prefix)
	if !strings.HasPrefix(stripped, "/") {
		stripped = "/" + stripped
	}
	return stripped
}
