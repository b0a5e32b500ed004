package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-payroll/internal"
	"github.com/antonio-alexander/go-employee-payroll/internal/data"
	"github.com/antonio-alexander/go-employee-payroll/internal/utilities"

	"github.com/pkg/errors"
)

// DefaultUrl returns ten employee records starting from id 1001
const DefaultUrl string = "https://hub.dummyapis.com/employee?noofRecords=10&idStarts=1001"

var ErrResponseNotOk = errors.New("network response was not ok")

// Source reads the list of employees from the remote endpoint, it's
// a single request with no retry and no pagination
type Source interface {
	EmployeesRead(ctx context.Context) ([]*data.Employee, error)
}

type source struct {
	sync.RWMutex
	config struct {
		url        string
		timeout    int64
		sslCaFile  string
		sslCrtFile string
		sslKeyFile string
	}
	utilities.Logger
	*http.Client
}

func NewSource(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Source
} {
	s := &source{Client: &http.Client{}}
	s.config.url = DefaultUrl
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			s.Logger = p
		}
	}
	if s.Logger == nil {
		s.Logger = utilities.NewLogger()
	}
	return s
}

func (s *source) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if u, ok := envs["SOURCE_URL"]; ok && u != "" {
		s.config.url = u
	}
	if timeout, ok := envs["SOURCE_TIMEOUT"]; ok && timeout != "" {
		i, err := strconv.ParseInt(timeout, 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid SOURCE_TIMEOUT")
		}
		s.config.timeout = i
	}
	if sslCaFile, ok := envs["SSL_CA_FILE"]; ok {
		s.config.sslCaFile = sslCaFile
	}
	if sslKeyFile, ok := envs["SSL_KEY_FILE"]; ok {
		s.config.sslKeyFile = sslKeyFile
	}
	if sslCrtFile, ok := envs["SSL_CRT_FILE"]; ok {
		s.config.sslCrtFile = sslCrtFile
	}
	return nil
}

func (s *source) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	u, err := url.Parse(s.config.url)
	if err != nil {
		return errors.Wrap(err, "invalid SOURCE_URL")
	}
	switch u.Scheme {
	default:
		return errors.Errorf("unsupported protocol: %s", u.Scheme)
	case "http", "https":
	}
	transport, err := internal.TlsTransport(s.config.sslCaFile, s.config.sslCrtFile,
		s.config.sslKeyFile)
	if err != nil {
		return err
	}
	s.Client.Transport = transport
	s.Client.Timeout = time.Duration(s.config.timeout) * time.Second
	s.Debug(ctx, "source: employees will be read from %s", s.config.url)
	return nil
}

func (s *source) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	s.Client.CloseIdleConnections()
	return nil
}

func (s *source) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	s.RLock()
	defer s.RUnlock()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		request.Header.Set(data.HeaderCorrelationId, correlationId)
	}
	response, err := s.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Wrap(ErrResponseNotOk, response.Status)
	}
	bytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	employees, err := data.DecodeEmployees(bytes)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode employees")
	}
	s.Trace(ctx, "source: read %d employees", len(employees))
	return employees, nil
}
