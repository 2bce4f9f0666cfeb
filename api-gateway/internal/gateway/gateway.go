package gateway

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	StorefrontURL string
	OrdersURL     string
	TrackerURL    string
	FrontendDir   string
}

type Gateway struct {
	config Config
	client HTTPClient
	logger *zap.SugaredLogger
}

func NewGateway(config Config, client HTTPClient, logger *zap.SugaredLogger) *Gateway {
	return &Gateway{
		config: config,
		client: client,
		logger: logger,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// hopHeaders are connection-scoped and must not be forwarded.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Proxy-Connection":  true,
	"Te":                true,
	"Trailer":           true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
}

// ProxyRequest forwards r to targetURL with its path, query, headers and
// cookies intact and copies the upstream response back.
func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}
	g.logger.Debugw("proxy", "method", r.Method, "path", r.URL.Path, "target", targetURL)

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Errorw("failed to create upstream request", "url", url, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		if !hopHeaders[k] {
			req.Header[k] = v
		}
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Errorw("upstream unavailable", "target", targetURL, "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		if !hopHeaders[k] {
			w.Header()[k] = v
		}
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Warnw("failed to copy upstream response", "path", r.URL.Path, "error", err)
	}
}

// Upstream picks the service that owns an API path.
func (g *Gateway) Upstream(path string) string {
	switch {
	case path == "/api/orders" || strings.HasPrefix(path, "/api/orders/"):
		return g.config.OrdersURL
	case strings.HasPrefix(path, "/api/tracking/"):
		return g.config.TrackerURL
	default:
		return g.config.StorefrontURL
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		g.ProxyRequest(w, r, g.Upstream(r.URL.Path))
		return
	}
	g.serveFrontend(w, r)
}

// serveFrontend serves static pages such as track.html as-is and falls back
// to the single page shell for everything else.
func (g *Gateway) serveFrontend(w http.ResponseWriter, r *http.Request) {
	name := filepath.Join(g.config.FrontendDir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(w, r, name)
		return
	}
	http.ServeFile(w, r, filepath.Join(g.config.FrontendDir, "index.html"))
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(g.config.FrontendDir))))
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
