package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-payroll/internal"
	"github.com/antonio-alexander/go-employee-payroll/internal/charts"
	"github.com/antonio-alexander/go-employee-payroll/internal/data"
	"github.com/antonio-alexander/go-employee-payroll/internal/export"
	"github.com/antonio-alexander/go-employee-payroll/internal/logic"
	"github.com/antonio-alexander/go-employee-payroll/internal/templates"
	"github.com/antonio-alexander/go-employee-payroll/internal/utilities"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

const defaultMaxUploadSize int64 = 10 << 20

type service struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		address          string
		port             string
		shutdownTimeout  time.Duration
		maxUploadSize    int64
		allowedOrigins   []string
		allowedMethods   []string
		allowedHeaders   []string
		allowCredentials bool
		corsDisabled     bool
		corsDebug        bool
		timersEnabled    bool
	}
	address string
	ctx     context.Context
	cancel  context.CancelFunc
	*mux.Router
	*http.Server
	utilities.Logger
	utilities.Counter
	utilities.Timers
	logic.Logic
}

func NewService(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Address() string
} {
	router := mux.NewRouter()
	s := &service{
		Router: router,
		Server: &http.Server{
			Handler: router,
		},
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case logic.Logic:
			s.Logic = p
		case utilities.Counter:
			s.Counter = p
		case utilities.Timers:
			s.Timers = p
		case utilities.Logger:
			s.Logger = p
		}
	}
	if s.Logger == nil {
		s.Logger = utilities.NewLogger()
	}
	if s.Counter == nil {
		s.Counter = utilities.NewCounter()
	}
	return s
}

func (s *service) launchServer() error {
	listener, err := net.Listen("tcp", s.Server.Addr)
	if err != nil {
		return err
	}
	s.address = listener.Addr().String()
	if !s.config.corsDisabled {
		s.Server.Handler = cors.New(cors.Options{
			AllowedOrigins:   s.config.allowedOrigins,
			AllowCredentials: s.config.allowCredentials,
			AllowedMethods:   s.config.allowedMethods,
			AllowedHeaders:   s.config.allowedHeaders,
			Debug:            s.config.corsDebug,
		}).Handler(s.Router)
	}
	started := make(chan struct{})
	s.Add(1)
	go func() {
		defer s.WaitGroup.Done()

		close(started)
		if err := s.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Error(s.ctx, "error while serving: %s", err)
		}
	}()
	<-started
	s.Info(s.ctx, "started server: %s", s.address)
	return nil
}

// startTimer starts a timer for group if timers are enabled, the returned
// function stops it
func (s *service) startTimer(ctx context.Context, group string) func() {
	if !s.config.timersEnabled || s.Timers == nil {
		return func() {}
	}
	timerIndex := s.Timers.Start(group)
	return func() {
		elapsedTime := s.Timers.Stop(group, timerIndex)
		s.Trace(ctx, "%s took %v", group,
			time.Duration(elapsedTime)*time.Nanosecond)
	}
}

func (s *service) render(writer http.ResponseWriter, request *http.Request, statusCode int, component templ.Component) {
	buffer := &bytes.Buffer{}
	if err := component.Render(request.Context(), buffer); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(statusCode)
	if _, err := buffer.WriteTo(writer); err != nil {
		s.Error(request.Context(), "error while rendering: %s", err)
	}
}

func (s *service) writeExport(ctx context.Context, writer http.ResponseWriter, viewId, format string) error {
	filename, contentType, err := export.Filename(format)
	if err != nil {
		return err
	}
	buffer := &bytes.Buffer{}
	if err := s.EmployeesExport(ctx, viewId, buffer, format); err != nil {
		return err
	}
	writer.Header().Set("Content-Type", contentType)
	writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writer.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))
	if _, err := buffer.WriteTo(writer); err != nil {
		s.Error(ctx, "error while writing export: %s", err)
	}
	return nil
}

// payrollView returns the view referenced by the view cookie, a view is
// created (and the cookie set) if there's no cookie or the view is gone
func (s *service) payrollView(ctx context.Context, writer http.ResponseWriter, request *http.Request) (*data.View, error) {
	if cookie, err := request.Cookie(data.CookieViewId); err == nil && cookie.Value != "" {
		view, err := s.ViewRead(ctx, cookie.Value)
		switch {
		case err == nil:
			return view, nil
		case !errors.Is(err, logic.ErrViewNotFound):
			return nil, err
		}
	}
	view, err := s.ViewCreate(ctx)
	if err != nil {
		return nil, err
	}
	http.SetCookie(writer, &http.Cookie{
		Name:     data.CookieViewId,
		Value:    view.ViewId,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return view, nil
}

func (s *service) payrollPage(view *data.View) templates.Page {
	return templates.Page{
		View:         view,
		Charts:       charts.Charts(),
		ImportAction: data.RoutePayrollImport,
		ExportHref:   data.RoutePayrollExport,
		SearchAction: data.RoutePayroll,
	}
}

func (s *service) endpointDefault() func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprintf(writer,
			"go-employee-payroll\n"+
				"Version: \"%s\"\n"+
				"Git Commit: \"%s\"\n"+
				"Git Branch: \"%s\"\n",
			Version, GitCommit, GitBranch)
	}
}

func (s *service) endpointViewCreate(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.startTimer(ctx, "view_create")()
	view, err := s.ViewCreate(ctx)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{View: view})
	s.Trace(ctx, "executed view_create: %s", view.ViewId)
}

func (s *service) endpointViewRead(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.startTimer(ctx, "view_read")()
	viewId := viewIdFromPath(mux.Vars(request))
	view, err := s.ViewRead(ctx, viewId)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{View: view})
	s.Trace(ctx, "executed view_read: %s", viewId)
}

func (s *service) endpointViewDelete(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.startTimer(ctx, "view_delete")()
	viewId := viewIdFromPath(mux.Vars(request))
	if err := s.ViewDelete(ctx, viewId); err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil)
	s.Trace(ctx, "executed view_delete: %s", viewId)
}

func (s *service) endpointEmployeesSearch(writer http.ResponseWriter, request *http.Request) {
	var search data.EmployeeSearch

	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.startTimer(ctx, "employees_search")()
	viewId := viewIdFromPath(mux.Vars(request))
	search.FromParams(request.URL.Query())
	employees, err := s.EmployeesSearch(ctx, viewId, search)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{Employees: employees})
	s.Trace(ctx, "executed employees_search: %s", viewId)
}

func (s *service) endpointEmployeesImport(writer http.ResponseWriter, request *http.Request) {
	var reader io.Reader

	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.startTimer(ctx, "employees_import")()
	viewId := viewIdFromPath(mux.Vars(request))
	request.Body = http.MaxBytesReader(writer, request.Body, s.config.maxUploadSize)
	defer request.Body.Close()
	reader = request.Body
	if mediaType, _, _ := mime.ParseMediaType(request.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		file, _, err := request.FormFile(data.FormFile)
		if err != nil {
			handleResponse(writer, err)
			return
		}
		defer file.Close()
		reader = file
	}
	employees, err := s.EmployeesImport(ctx, viewId, reader)
	if err != nil {
		handleResponse(writer, err)
		return
	}
	handleResponse(writer, nil, &data.Response{Employees: employees})
	s.Trace(ctx, "executed employees_import: %s", viewId)
}

func (s *service) endpointEmployeesExport(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.startTimer(ctx, "employees_export")()
	viewId := viewIdFromPath(mux.Vars(request))
	format := request.URL.Query().Get(data.ParameterFormat)
	if err := s.writeExport(ctx, writer, viewId, format); err != nil {
		handleResponse(writer, err)
		return
	}
	s.Trace(ctx, "executed employees_export: %s", viewId)
}

func (s *service) endpointChartsRead(writer http.ResponseWriter, _ *http.Request) {
	handleResponse(writer, nil, &data.Response{Charts: charts.Charts()})
}

func (s *service) endpointPayroll(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.startTimer(ctx, "payroll")()
	view, err := s.payrollView(ctx, writer, request)
	if err != nil {
		http.Error(writer, err.Error(), errorStatusCode(err))
		return
	}
	page := s.payrollPage(view)
	if view.Status == data.ViewStatusLoaded {
		var search data.EmployeeSearch

		search.FromParams(request.URL.Query())
		employees, err := s.EmployeesSearch(ctx, view.ViewId, search)
		if err != nil {
			http.Error(writer, err.Error(), errorStatusCode(err))
			return
		}
		page.Employees, page.Search = employees, search.Term
	}
	s.render(writer, request, http.StatusOK, templates.Payroll(page))
}

func (s *service) endpointPayrollImport(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.startTimer(ctx, "payroll_import")()
	request.Body = http.MaxBytesReader(writer, request.Body, s.config.maxUploadSize)
	defer request.Body.Close()
	view, err := s.payrollView(ctx, writer, request)
	if err != nil {
		http.Error(writer, err.Error(), errorStatusCode(err))
		return
	}
	file, _, errImport := request.FormFile(data.FormFile)
	if errImport == nil {
		defer file.Close()
		_, errImport = s.EmployeesImport(ctx, view.ViewId, file)
	}
	switch {
	case errImport == nil, errors.Is(errImport, http.ErrMissingFile):
	case errors.Is(errImport, logic.ErrViewNotFound), errors.Is(errImport, logic.ErrViewNotLoaded):
	default:
		//the previous employees are kept, the failure is shown above them
		statusCode := errorStatusCode(errImport)
		if statusCode == http.StatusInternalServerError {
			http.Error(writer, errImport.Error(), statusCode)
			return
		}
		view, err := s.ViewRead(ctx, view.ViewId)
		if err != nil {
			http.Error(writer, err.Error(), errorStatusCode(err))
			return
		}
		page := s.payrollPage(view)
		page.Employees = view.Employees
		page.Notice = "Error importing employee data: " + errImport.Error()
		s.render(writer, request, statusCode, templates.Payroll(page))
		return
	}
	http.Redirect(writer, request, data.RoutePayroll, http.StatusSeeOther)
}

func (s *service) endpointPayrollExport(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.startTimer(ctx, "payroll_export")()
	view, err := s.payrollView(ctx, writer, request)
	if err != nil {
		http.Error(writer, err.Error(), errorStatusCode(err))
		return
	}
	if err := s.writeExport(ctx, writer, view.ViewId, data.FormatCsv); err != nil {
		http.Error(writer, err.Error(), errorStatusCode(err))
	}
}

func (s *service) endpointCountersRead(writer http.ResponseWriter, _ *http.Request) {
	handleResponse(writer, nil, s.Counter.ReadAll())
}

func (s *service) endpointCountersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	s.Counter.Reset()
	handleResponse(writer, nil)
	s.Trace(ctx, "executed counters_clear")
}

func (s *service) endpointTimersRead(writer http.ResponseWriter, _ *http.Request) {
	if s.Timers == nil {
		handleResponse(writer, nil, &data.Timers{})
		return
	}
	handleResponse(writer, nil, s.Timers.ReadAll())
}

func (s *service) endpointTimersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	if s.Timers != nil {
		s.Timers.Clear()
	}
	handleResponse(writer, nil)
	s.Trace(ctx, "executed timers_clear")
}

func (s *service) buildRoutes() {
	s.Router.HandleFunc("/", s.endpointDefault())
	s.Router.HandleFunc(data.RoutePayroll, s.endpointPayroll).Methods(http.MethodGet)
	s.Router.HandleFunc(data.RoutePayrollImport, s.endpointPayrollImport).Methods(http.MethodPost)
	s.Router.HandleFunc(data.RoutePayrollExport, s.endpointPayrollExport).Methods(http.MethodGet)
	s.Router.HandleFunc(data.RouteCharts, s.endpointChartsRead).Methods(http.MethodGet)
	s.Router.HandleFunc(data.RouteViews, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodPut:
			s.endpointViewCreate(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteViewsViewId, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointViewRead(w, r)
		case http.MethodDelete:
			s.endpointViewDelete(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteViewsViewIdEmployees, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeesSearch(w, r)
		case http.MethodPut:
			s.endpointEmployeesImport(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteViewsViewIdEmployeesExport, s.endpointEmployeesExport).Methods(http.MethodGet)
	s.Router.HandleFunc(data.RouteCounters, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointCountersRead(w, r)
		case http.MethodDelete:
			s.endpointCountersClear(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteTimers, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointTimersRead(w, r)
		case http.MethodDelete:
			s.endpointTimersClear(w, r)
		}
	})
}

func (s *service) Address() string {
	s.RLock()
	defer s.RUnlock()

	return s.address
}

func (s *service) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if address, ok := envs["SERVICE_ADDRESS"]; ok {
		s.config.address = address
	}
	if port, ok := envs["SERVICE_PORT"]; ok {
		s.config.port = port
	}
	s.config.shutdownTimeout = 10 * time.Second
	if shutdownTimeoutString, ok := envs["SERVICE_SHUTDOWN_TIMEOUT"]; ok {
		if shutdownTimeoutInt, err := strconv.Atoi(shutdownTimeoutString); err == nil {
			if timeout := time.Duration(shutdownTimeoutInt) * time.Second; timeout > 0 {
				s.config.shutdownTimeout = timeout
			}
		}
	}
	s.config.maxUploadSize = defaultMaxUploadSize
	if maxUploadSizeString, ok := envs["SERVICE_MAX_UPLOAD_SIZE"]; ok {
		if maxUploadSize, err := strconv.ParseInt(maxUploadSizeString, 10, 64); err == nil && maxUploadSize > 0 {
			s.config.maxUploadSize = maxUploadSize
		}
	}
	if allowCredentialsString, ok := envs["SERVICE_CORS_ALLOW_CREDENTIALS"]; ok {
		if allowCredentials, err := strconv.ParseBool(allowCredentialsString); err == nil {
			s.config.allowCredentials = allowCredentials
		}
	}
	if allowedOrigins := envs["SERVICE_CORS_ALLOWED_ORIGINS"]; allowedOrigins != "" {
		s.config.allowedOrigins = strings.Split(allowedOrigins, ",")
	}
	s.config.allowedMethods = []string{http.MethodGet, http.MethodPost,
		http.MethodPut, http.MethodDelete, http.MethodHead}
	if allowedMethods := envs["SERVICE_CORS_ALLOWED_METHODS"]; allowedMethods != "" {
		s.config.allowedMethods = strings.Split(allowedMethods, ",")
	}
	if allowedHeaders := envs["SERVICE_CORS_ALLOWED_HEADERS"]; allowedHeaders != "" {
		s.config.allowedHeaders = strings.Split(allowedHeaders, ",")
	}
	if corsDisabledString, ok := envs["SERVICE_CORS_DISABLED"]; ok {
		if corsDisabled, err := strconv.ParseBool(corsDisabledString); err == nil {
			s.config.corsDisabled = corsDisabled
		}
	}
	if corsDebug, ok := envs["SERVICE_CORS_DEBUG"]; ok {
		if corsDebug, err := strconv.ParseBool(corsDebug); err == nil {
			s.config.corsDebug = corsDebug
		}
	}
	if timersEnabled := envs["SERVICE_TIMERS_ENABLED"]; timersEnabled != "" {
		s.config.timersEnabled, _ = strconv.ParseBool(timersEnabled)
	}
	return nil
}

func (s *service) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.Logic == nil {
		return errors.New("logic not provided")
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.Server.Addr = net.JoinHostPort(s.config.address, s.config.port)
	s.buildRoutes()
	if err := s.launchServer(); err != nil {
		s.cancel()
		return err
	}
	return nil
}

func (s *service) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.cancel == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.shutdownTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		s.Error(ctx, "error while shutting down the server: %s", err)
	}
	s.cancel()
	s.Wait()
	s.cancel = nil
	return nil
}
