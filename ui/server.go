package ui

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/stoich/chem"
	"github.com/dhamidi/stoich/config"
	"github.com/dhamidi/stoich/format"
	"github.com/dhamidi/stoich/message"
)

//go:embed static templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("stoich.ui")

// maxBodyBytes bounds POST /balance bodies.
const maxBodyBytes = 64 << 10

type Server struct {
	locale     string
	staticFS   fs.FS
	templateFS fs.FS
	funcMap    template.FuncMap
	mux        *http.ServeMux
	handler    http.Handler
	metrics    *metrics
	limiter    *rateLimiter
}

// NewServer builds the web UI from cfg. When cfg.Server.TemplatesDir is set,
// templates found there take precedence over the embedded ones.
func NewServer(cfg *config.Config) (*Server, error) {
	templateFS := mustSub(embeddedFS, "templates")
	if dir := cfg.Server.TemplatesDir; dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("templates dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("templates dir %s: not a directory", dir)
		}
		templateFS = overlayFS(dir, templateFS)
	}

	funcMap := template.FuncMap{
		"sides": func(p chem.TallyPair, symbol string) string {
			return p.Reactants.Count(symbol).String() + " → " + p.Products.Count(symbol).String()
		},
		"coefficients": func(r *chem.Result) string {
			parts := make([]string, len(r.Coefficients))
			for i, c := range r.Coefficients {
				parts[i] = c.String()
			}
			return strings.Join(parts, ", ")
		},
	}

	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		locale:     cfg.Output.Locale,
		staticFS:   mustSub(embeddedFS, "static"),
		templateFS: templateFS,
		funcMap:    funcMap,
		mux:        http.NewServeMux(),
		metrics:    newMetrics(),
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		s.limiter = newRateLimiter(rl.RPS, rl.Burst, 10*time.Minute)
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFS))))
	s.mux.Handle("POST /balance", s.limit(http.HandlerFunc(s.handleBalance)))
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", s.metrics.handler())
	s.mux.HandleFunc("GET /", s.handleIndex)

	s.handler = withRequestID(logRequests(s.mux))

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warningf("encode response: %s", err)
	}
}

type balanceRequest struct {
	Equation string `json:"equation"`
	Locale   string `json:"locale"`
}

// PageData is passed to index.html and result.html.
type PageData struct {
	Equation string
	Locale   string
	Locales  []string
	Result   *chem.Result
	Error    string
	Kind     string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "index.html", PageData{
		Equation: r.URL.Query().Get("equation"),
		Locale:   s.resolveLocale(r.URL.Query().Get("locale")),
		Locales:  []string{message.English, message.Thai},
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBalanceRequest(w, r)
	if err != nil {
		s.metrics.count("bad_request")
		if wantsHTML(r) {
			s.render(w, http.StatusBadRequest, "result.html", PageData{
				Equation: req.Equation,
				Locale:   s.resolveLocale(req.Locale),
				Locales:  []string{message.English, message.Thai},
				Error:    err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, format.ErrorJSON{Error: err.Error()})
		return
	}
	locale := s.resolveLocale(req.Locale)

	start := time.Now()
	result, err := chem.Balance(req.Equation)
	s.metrics.observe(time.Since(start))
	s.metrics.count(outcome(err))

	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
		log.Debugf("balance %q: %s", req.Equation, err)
	}

	if wantsHTML(r) {
		data := PageData{
			Equation: req.Equation,
			Locale:   locale,
			Locales:  []string{message.English, message.Thai},
			Result:   result,
		}
		if err != nil {
			failure := format.Failure(err, locale)
			data.Error = failure.Error
			data.Kind = failure.Kind
		}
		s.render(w, status, "result.html", data)
		return
	}

	if err != nil {
		writeJSON(w, status, format.Failure(err, locale))
		return
	}
	writeJSON(w, status, format.Success(result))
}

func decodeBalanceRequest(w http.ResponseWriter, r *http.Request) (balanceRequest, error) {
	var req balanceRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("invalid JSON: %w", err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("invalid form data: %w", err)
		}
		req.Equation = r.PostFormValue("equation")
		req.Locale = r.PostFormValue("locale")
	}
	if req.Locale == "" {
		req.Locale = r.URL.Query().Get("locale")
	}

	if strings.TrimSpace(req.Equation) == "" {
		return req, errors.New("equation is required")
	}
	return req, nil
}

func (s *Server) resolveLocale(requested string) string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if message.Supported(requested) {
		return requested
	}
	return s.locale
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var chemErr *chem.Error
	if errors.As(err, &chemErr) {
		return chemErr.Kind.String()
	}
	return "error"
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)
	var firstErr error
	found := false
	for _, fsys := range []fs.FS{o.secondary, o.primary} {
		list, err := fs.ReadDir(fsys, name)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		found = true
		for _, e := range list {
			entries[e.Name()] = e
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	if !found {
		return nil, firstErr
	}
	return result, nil
}
