package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
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

const defaultPollInterval time.Duration = 250 * time.Millisecond

type Client interface {
	ViewCreate(ctx context.Context) (*data.View, error)
	ViewRead(ctx context.Context, viewId string) (*data.View, error)
	ViewWait(ctx context.Context, viewId string) (*data.View, error)
	ViewDelete(ctx context.Context, viewId string) error
	EmployeesSearch(ctx context.Context, viewId string,
		search data.EmployeeSearch) ([]*data.Employee, error)
	EmployeesImport(ctx context.Context, viewId string,
		employees []byte) ([]*data.Employee, error)
	EmployeesExport(ctx context.Context, viewId, format string) ([]byte, error)
	ChartsRead(ctx context.Context) ([]*data.Chart, error)
	CountersRead(ctx context.Context) (*data.Counters, error)
	CountersClear(ctx context.Context) error
	TimersRead(ctx context.Context) (*data.Timers, error)
	TimersClear(ctx context.Context) error
}

type client struct {
	sync.RWMutex
	config struct {
		protocol     string
		address      string
		port         string
		timeout      int64
		pollInterval time.Duration
		sslCaFile    string
		sslCrtFile   string
		sslKeyFile   string
	}
	address string
	utilities.Logger
	*http.Client
}

func NewClient(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Client
} {
	c := &client{Client: &http.Client{}}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	if c.Logger == nil {
		c.Logger = utilities.NewLogger()
	}
	return c
}

func (c *client) doRequest(ctx context.Context, uri, method string, item any) ([]byte, error) {
	var contentType string
	var body io.Reader

	switch d := item.(type) {
	case []byte:
		body = bytes.NewReader(d)
		contentType = "application/json"
	case url.Values:
		if len(d) > 0 {
			uri = uri + "?" + d.Encode()
		}
	}
	request, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		request.Header.Set(data.HeaderCorrelationId, correlationId)
	}
	response, err := c.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	bytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	switch response.StatusCode {
	default:
		var e data.Error

		if err := json.Unmarshal(bytes, &e); err != nil || e.Error == "" {
			return nil, errors.Errorf("status code: %d; %s",
				response.StatusCode, string(bytes))
		}
		return nil, errors.Errorf("status code: %d; %s",
			response.StatusCode, e.Error)
	case http.StatusOK, http.StatusNoContent:
		return bytes, nil
	}
}

func (c *client) Configure(envs map[string]string) error {
	c.Lock()
	defer c.Unlock()

	if address, ok := envs["CLIENT_ADDRESS"]; ok {
		c.config.address = address
	}
	if port, ok := envs["CLIENT_PORT"]; ok {
		c.config.port = port
	}
	if protocol, ok := envs["CLIENT_PROTOCOL"]; ok {
		c.config.protocol = protocol
	}
	if timeout, ok := envs["CLIENT_TIMEOUT"]; ok && timeout != "" {
		i, err := strconv.ParseInt(timeout, 10, 64)
		if err != nil {
			return err
		}
		c.config.timeout = i
	}
	c.config.pollInterval = defaultPollInterval
	if pollInterval, ok := envs["CLIENT_POLL_INTERVAL"]; ok && pollInterval != "" {
		i, err := strconv.ParseInt(pollInterval, 10, 64)
		if err != nil {
			return err
		}
		if i > 0 {
			c.config.pollInterval = time.Duration(i) * time.Millisecond
		}
	}
	if sslCaFile, ok := envs["SSL_CA_FILE"]; ok {
		c.config.sslCaFile = sslCaFile
	}
	if sslKeyFile, ok := envs["SSL_KEY_FILE"]; ok {
		c.config.sslKeyFile = sslKeyFile
	}
	if sslCrtFile, ok := envs["SSL_CRT_FILE"]; ok {
		c.config.sslCrtFile = sslCrtFile
	}
	return nil
}

func (c *client) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	switch c.config.protocol {
	default:
		return errors.Errorf("unsupported protocol: %s", c.config.protocol)
	case "http", "https":
		c.address = fmt.Sprintf("%s://%s", c.config.protocol,
			net.JoinHostPort(c.config.address, c.config.port))
	}
	c.Client.Timeout = time.Duration(c.config.timeout) * time.Second
	transport, err := internal.TlsTransport(c.config.sslCaFile, c.config.sslCrtFile,
		c.config.sslKeyFile)
	if err != nil {
		return err
	}
	c.Client.Transport = transport
	c.Debug(ctx, "client: connecting to %s", c.address)
	return nil
}

func (c *client) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.Client.CloseIdleConnections()
	return nil
}

func (c *client) readView(ctx context.Context, uri, method string) (*data.View, error) {
	bytes, err := c.doRequest(ctx, uri, method, nil)
	if err != nil {
		return nil, err
	}
	response := &data.Response{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	if response.View == nil {
		return nil, errors.New("view not found in response")
	}
	return response.View, nil
}

func (c *client) ViewCreate(ctx context.Context) (*data.View, error) {
	return c.readView(ctx, c.address+data.RouteViews, http.MethodPut)
}

func (c *client) ViewRead(ctx context.Context, viewId string) (*data.View, error) {
	uri := fmt.Sprintf(c.address+data.RouteViewsViewIdf, url.PathEscape(viewId))
	return c.readView(ctx, uri, http.MethodGet)
}

// ViewWait polls the view until it's no longer loading
func (c *client) ViewWait(ctx context.Context, viewId string) (*data.View, error) {
	ticker := time.NewTicker(c.config.pollInterval)
	defer ticker.Stop()

	for {
		view, err := c.ViewRead(ctx, viewId)
		if err != nil {
			return nil, err
		}
		if view.Status != data.ViewStatusLoading {
			return view, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *client) ViewDelete(ctx context.Context, viewId string) error {
	uri := fmt.Sprintf(c.address+data.RouteViewsViewIdf, url.PathEscape(viewId))
	_, err := c.doRequest(ctx, uri, http.MethodDelete, nil)
	return err
}

func (c *client) EmployeesSearch(ctx context.Context, viewId string, search data.EmployeeSearch) ([]*data.Employee, error) {
	var response data.Response

	uri := fmt.Sprintf(c.address+data.RouteViewsViewIdEmployeesf, url.PathEscape(viewId))
	bytes, err := c.doRequest(ctx, uri, http.MethodGet, search.ToParams())
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bytes, &response); err != nil {
		return nil, err
	}
	return response.Employees, nil
}

func (c *client) EmployeesImport(ctx context.Context, viewId string, employees []byte) ([]*data.Employee, error) {
	var response data.Response

	uri := fmt.Sprintf(c.address+data.RouteViewsViewIdEmployeesf, url.PathEscape(viewId))
	bytes, err := c.doRequest(ctx, uri, http.MethodPut, employees)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bytes, &response); err != nil {
		return nil, err
	}
	return response.Employees, nil
}

func (c *client) EmployeesExport(ctx context.Context, viewId, format string) ([]byte, error) {
	params := url.Values{}
	if format != "" {
		params.Set(data.ParameterFormat, format)
	}
	uri := fmt.Sprintf(c.address+data.RouteViewsViewIdEmployeesExportf, url.PathEscape(viewId))
	return c.doRequest(ctx, uri, http.MethodGet, params)
}

func (c *client) ChartsRead(ctx context.Context) ([]*data.Chart, error) {
	var response data.Response

	bytes, err := c.doRequest(ctx, c.address+data.RouteCharts, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bytes, &response); err != nil {
		return nil, err
	}
	return response.Charts, nil
}

func (c *client) CountersRead(ctx context.Context) (*data.Counters, error) {
	bytes, err := c.doRequest(ctx, c.address+data.RouteCounters, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	response := &data.Counters{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) CountersClear(ctx context.Context) error {
	_, err := c.doRequest(ctx, c.address+data.RouteCounters, http.MethodDelete, nil)
	return err
}

func (c *client) TimersRead(ctx context.Context) (*data.Timers, error) {
	bytes, err := c.doRequest(ctx, c.address+data.RouteTimers, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	response := &data.Timers{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) TimersClear(ctx context.Context) error {
	_, err := c.doRequest(ctx, c.address+data.RouteTimers, http.MethodDelete, nil)
	return err
}
