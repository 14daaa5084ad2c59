package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/deepnoodle-ai/morph"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/transform"
	"github.com/deepnoodle-ai/morph/transform/builtins"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const maxRequestBytes = 4 << 20

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Long: `Serve the compiler over HTTP. POST /transform accepts a JSON body with
the code and options and responds with the compiled result. Prometheus
metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: serveHandler,
	}
	cmd.Flags().String("addr", ":8080", "address to listen on")
	cmd.Flags().Int("rate-limit", 120, "requests per minute allowed per client IP, 0 disables the limit")
	cmd.Flags().StringSlice("cors-origins", []string{"*"}, "allowed CORS origins")
	cmd.Flags().Duration("timeout", 30*time.Second, "maximum time spent compiling one request")
	return cmd
}

func serveHandler(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())
	srv := &http.Server{
		Addr: viper.GetString("addr"),
		Handler: newServer(serverConfig{
			Log:         log,
			RateLimit:   viper.GetInt("rate-limit"),
			CORSOrigins: viper.GetStringSlice("cors-origins"),
			Timeout:     viper.GetDuration("timeout"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(ctx)
}

type serverConfig struct {
	Log         zerolog.Logger
	RateLimit   int
	CORSOrigins []string
	Timeout     time.Duration
}

type server struct {
	cfg      serverConfig
	pipeline *transform.Pipeline
}

// transformRequest is the body of POST /transform.
type transformRequest struct {
	Code            string   `json:"code"`
	Filename        string   `json:"filename,omitempty"`
	SourceMaps      string   `json:"sourceMaps,omitempty"`
	Blacklist       []string `json:"blacklist,omitempty"`
	Whitelist       []string `json:"whitelist,omitempty"`
	Optional        []string `json:"optional,omitempty"`
	Loose           []string `json:"loose,omitempty"`
	Modules         string   `json:"modules,omitempty"`
	ExternalHelpers *string  `json:"externalHelpers,omitempty"`
	Compact         bool     `json:"compact,omitempty"`
}

type errorResponse struct {
	Error  string           `json:"error"`
	Code   errors.ErrorCode `json:"code,omitempty"`
	Line   int              `json:"line,omitempty"`
	Column int              `json:"column,omitempty"`
}

func newServer(cfg serverConfig) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s := &server{
		cfg:      cfg,
		pipeline: builtins.NewPipeline(transform.WithMetrics(transform.NewMetrics(reg))),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/helpers", s.handleHelpers)
	r.Post("/transform", s.handleTransform)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		s.cfg.Log.Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(req.Context())).
			Msg("request")
	})
}

func (s *server) handleHelpers(w http.ResponseWriter, req *http.Request) {
	writeResponse(w, http.StatusOK, s.pipeline.Helpers().Helpers())
}

func (s *server) handleTransform(w http.ResponseWriter, req *http.Request) {
	var body transformRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeResponse(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	mode, err := parseSourceMapMode(body.SourceMaps)
	if err != nil {
		writeResponse(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	opts := []morph.Option{
		morph.WithPipeline(s.pipeline),
		morph.WithLogger(s.cfg.Log),
		morph.WithSourceMaps(mode),
		morph.WithBlacklist(body.Blacklist...),
		morph.WithWhitelist(body.Whitelist...),
		morph.WithOptional(body.Optional...),
		morph.WithLoose(body.Loose...),
		morph.WithCompact(body.Compact),
	}
	if body.Filename != "" {
		opts = append(opts, morph.WithFilename(body.Filename))
	}
	if body.Modules != "" {
		opts = append(opts, morph.WithModules(body.Modules))
	}
	if body.ExternalHelpers != nil {
		opts = append(opts, morph.WithExternalHelpers(*body.ExternalHelpers))
	}

	ctx := req.Context()
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	res, err := morph.Transform(ctx, body.Code, opts...)
	if err != nil {
		status, resp := describeError(err)
		writeResponse(w, status, resp)
		return
	}
	writeResponse(w, http.StatusOK, res)
}

func describeError(err error) (int, errorResponse) {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable, errorResponse{Error: err.Error()}
	}
	var d errors.Diagnosable
	if !stderrors.As(err, &d) {
		return http.StatusInternalServerError, errorResponse{Error: err.Error()}
	}
	diag := d.Diag()
	resp := errorResponse{Error: err.Error(), Code: diag.Code}
	if diag.Loc != nil {
		resp.Line = diag.Loc.Start.Line
		resp.Column = diag.Loc.Start.Column + 1
	}
	return http.StatusBadRequest, resp
}

func writeResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
