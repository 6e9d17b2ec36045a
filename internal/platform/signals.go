package platform

import (
	"net"
	"net/http"
	"net/url"
)

// Signals is the request evidence the resolver inspects, already split by
// tier. Zero values mean the signal is absent.
type Signals struct {
	Query    url.Values
	Hostname string
	Path     string
	Referrer string
}

// SignalsFromRequest extracts resolution signals from an inbound HTTP
// request. Behind a proxy the original host arrives in X-Forwarded-Host;
// otherwise the Host header is used. Ports are stripped so rule tables only
// ever deal in bare domains.
func SignalsFromRequest(r *http.Request) Signals {
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	return Signals{
		Query:    r.URL.Query(),
		Hostname: host,
		Path:     r.URL.Path,
		Referrer: r.Referer(),
	}
}
