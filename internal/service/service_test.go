package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/antonio-alexander/go-employee-payroll/internal"
	"github.com/antonio-alexander/go-employee-payroll/internal/data"
	"github.com/antonio-alexander/go-employee-payroll/internal/export"
	"github.com/antonio-alexander/go-employee-payroll/internal/logic"
	"github.com/antonio-alexander/go-employee-payroll/internal/service"
	"github.com/antonio-alexander/go-employee-payroll/internal/source"
	"github.com/antonio-alexander/go-employee-payroll/internal/utilities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	waitFor time.Duration = 5 * time.Second
	tick    time.Duration = 20 * time.Millisecond
)

const employeesJson string = `[
 {"id": 1001, "imageUrl": "https://example.com/1001.png", "firstName": "Jane", "lastName": "Doe", "email": "jane.doe@example.com", "contactNumber": "5551234567", "age": 34, "dob": "01/02/1990", "salary": 51234.5, "address": "12 Main St, Springfield"},
 {"id": 1002, "imageUrl": "https://example.com/1002.png", "firstName": "John", "lastName": "Smith", "email": "john.smith@example.com", "contactNumber": "5557654321", "age": 41, "dob": "03/04/1983", "salary": 72000, "address": "99 Elm St"},
 {"id": 1003, "imageUrl": "https://example.com/1003.png", "firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "contactNumber": "5550000000", "age": 36, "dob": "12/10/1988", "salary": 99000, "address": "1 Analytical Way"}
]`

const importJson string = `[
 {"id": 1, "firstName": "Alan", "lastName": "Turing", "email": "alan@example.com", "salary": 90000},
 {"id": 2, "firstName": "Grace", "lastName": "Hopper", "email": "grace@example.com", "salary": 95000}
]`

var envs = map[string]string{
	"SERVICE_ADDRESS":          "127.0.0.1",
	"SERVICE_PORT":             "0",
	"SERVICE_SHUTDOWN_TIMEOUT": "5",
	"SERVICE_TIMERS_ENABLED":   "true",
	"VIEW_TTL":                 "900",
	"VIEW_PRUNE_INTERVAL":      "60",
}

type upstream struct {
	sync.Mutex
	*httptest.Server
	status int
	body   string
}

func newUpstream(status int, body string) *upstream {
	u := &upstream{status: status, body: body}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.Lock()
		defer u.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.status)
		fmt.Fprint(w, u.body)
	}))
	return u
}

type serviceTest struct {
	upstream *upstream
	source   interface {
		internal.Configurer
		internal.Opener
		source.Source
	}
	logic interface {
		internal.Configurer
		internal.Opener
		internal.Clearer
		logic.Logic
	}
	service interface {
		internal.Configurer
		internal.Opener
		Address() string
	}
	client  *http.Client
	address string
}

func newServiceTest(t *testing.T, status int, body string) *serviceTest {
	ctx := context.TODO()
	u := newUpstream(status, body)
	t.Cleanup(u.Close)

	logger := utilities.NewLogger()
	counter := utilities.NewCounter()
	timers := utilities.NewTimers()
	src := source.NewSource(logger)
	l := logic.NewLogic(src, logger, counter)
	s := service.NewService(l, counter, timers, logger)
	serviceEnvs := map[string]string{"SOURCE_URL": u.URL}
	for key, value := range envs {
		serviceEnvs[key] = value
	}
	require.Nil(t, logger.Configure(serviceEnvs))
	require.Nil(t, src.Configure(serviceEnvs))
	require.Nil(t, l.Configure(serviceEnvs))
	require.Nil(t, s.Configure(serviceEnvs))
	require.Nil(t, src.Open(ctx))
	require.Nil(t, l.Open(ctx))
	require.Nil(t, s.Open(ctx))
	t.Cleanup(func() {
		if err := s.Close(ctx); err != nil {
			t.Logf("error while closing service: %s", err)
		}
		if err := l.Close(ctx); err != nil {
			t.Logf("error while closing logic: %s", err)
		}
		if err := src.Close(ctx); err != nil {
			t.Logf("error while closing source: %s", err)
		}
	})
	jar, err := cookiejar.New(nil)
	require.Nil(t, err)
	return &serviceTest{
		upstream: u,
		source:   src,
		logic:    l,
		service:  s,
		client:   &http.Client{Jar: jar},
		address:  "http://" + s.Address(),
	}
}

func (s *serviceTest) do(t *testing.T, method, uri, contentType string, body io.Reader) (*http.Response, []byte) {
	request, err := http.NewRequest(method, s.address+uri, body)
	require.Nil(t, err)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	response, err := s.client.Do(request)
	require.Nil(t, err)
	defer response.Body.Close()
	bytes, err := io.ReadAll(response.Body)
	require.Nil(t, err)
	return response, bytes
}

func (s *serviceTest) viewLoaded(t *testing.T) *data.View {
	var response data.Response

	_, err := internal.DoRequest(s.client, s.address+data.RouteViews, http.MethodPut, nil, &response)
	require.Nil(t, err)
	require.NotNil(t, response.View)
	viewId := response.View.ViewId
	require.Eventually(t, func() bool {
		response = data.Response{}
		uri := fmt.Sprintf(s.address+data.RouteViewsViewIdf, viewId)
		_, err := internal.DoRequest(s.client, uri, http.MethodGet, nil, &response)
		return err == nil && response.View.Status != data.ViewStatusLoading
	}, waitFor, tick)
	return response.View
}

func multipartBody(t *testing.T, filename, content string) (string, io.Reader) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(data.FormFile, filename)
	require.Nil(t, err)
	_, err = io.WriteString(part, content)
	require.Nil(t, err)
	require.Nil(t, writer.Close())
	return writer.FormDataContentType(), body
}

func (s *serviceTest) TestViews(t *testing.T) {
	var response data.Response

	expected, err := data.DecodeEmployees([]byte(employeesJson))
	require.Nil(t, err)

	//create view and wait for it to load
	view := s.viewLoaded(t)
	assert.Equal(t, data.ViewStatusLoaded, view.Status)
	assert.Equal(t, expected, view.Employees)

	//search employees
	uriEmployees := fmt.Sprintf(s.address+data.RouteViewsViewIdEmployeesf, view.ViewId)
	search := data.EmployeeSearch{Term: "JANE"}
	_, err = internal.DoRequest(s.client, uriEmployees, http.MethodGet, search.ToParams(), &response)
	assert.Nil(t, err)
	if assert.Len(t, response.Employees, 1) {
		assert.Equal(t, expected[0], response.Employees[0])
	}

	//export employees as csv
	uriExport := fmt.Sprintf(data.RouteViewsViewIdEmployeesExportf, view.ViewId)
	httpResponse, body := s.do(t, http.MethodGet, uriExport, "", nil)
	assert.Equal(t, http.StatusOK, httpResponse.StatusCode)
	assert.Equal(t, export.ContentTypeCsv, httpResponse.Header.Get("Content-Type"))
	assert.Contains(t, httpResponse.Header.Get("Content-Disposition"), "employee_data.csv")
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	assert.Nil(t, err)
	if assert.Len(t, records, len(expected)) {
		for i, record := range records {
			assert.Len(t, record, 8)
			assert.Equal(t, export.Record(expected[i]), record)
		}
	}

	//export employees as xlsx
	httpResponse, body = s.do(t, http.MethodGet, uriExport+"?format=xlsx", "", nil)
	assert.Equal(t, http.StatusOK, httpResponse.StatusCode)
	file, err := excelize.OpenReader(bytes.NewReader(body))
	if assert.Nil(t, err) {
		rows, err := file.GetRows(export.SheetName)
		assert.Nil(t, err)
		assert.Len(t, rows, len(expected))
		_ = file.Close()
	}

	//unsupported export format
	httpResponse, _ = s.do(t, http.MethodGet, uriExport+"?format=pdf", "", nil)
	assert.Equal(t, http.StatusBadRequest, httpResponse.StatusCode)

	//import employees
	response = data.Response{}
	_, err = internal.DoRequest(s.client, uriEmployees, http.MethodPut, []byte(importJson), &response)
	assert.Nil(t, err)
	assert.Len(t, response.Employees, 2)

	//import employees using a multipart upload
	contentType, multipartReader := multipartBody(t, "employees.json", employeesJson)
	httpResponse, _ = s.do(t, http.MethodPut, strings.TrimPrefix(uriEmployees, s.address), contentType, multipartReader)
	assert.Equal(t, http.StatusOK, httpResponse.StatusCode)
	response = data.Response{}
	_, err = internal.DoRequest(s.client, uriEmployees, http.MethodGet, nil, &response)
	assert.Nil(t, err)
	assert.Len(t, response.Employees, len(expected))

	//malformed import is rejected, employees are untouched
	httpResponse, body = s.do(t, http.MethodPut, strings.TrimPrefix(uriEmployees, s.address),
		"application/json", strings.NewReader(`[{"firstName": `))
	assert.Equal(t, http.StatusBadRequest, httpResponse.StatusCode)
	assert.Contains(t, string(body), "employee import malformed")
	response = data.Response{}
	_, err = internal.DoRequest(s.client, uriEmployees, http.MethodGet, nil, &response)
	assert.Nil(t, err)
	assert.Equal(t, expected, response.Employees)

	//delete view
	uriView := fmt.Sprintf(s.address+data.RouteViewsViewIdf, view.ViewId)
	_, err = internal.DoRequest(s.client, uriView, http.MethodDelete, nil)
	assert.Nil(t, err)
	httpResponse, _ = s.do(t, http.MethodGet, strings.TrimPrefix(uriView, s.address), "", nil)
	assert.Equal(t, http.StatusNotFound, httpResponse.StatusCode)

	//counters and timers
	counters := &data.Counters{}
	_, err = internal.DoRequest(s.client, s.address+data.RouteCounters, http.MethodGet, nil, counters)
	assert.Nil(t, err)
	assert.Equal(t, 1, counters.Successes[logic.CounterViewLoad])
	assert.Equal(t, 2, counters.Successes[logic.CounterEmployeesImport])
	assert.Equal(t, 1, counters.Failures[logic.CounterEmployeesImport])
	timers := &data.Timers{}
	_, err = internal.DoRequest(s.client, s.address+data.RouteTimers, http.MethodGet, nil, timers)
	assert.Nil(t, err)
	assert.NotZero(t, timers.Totals["view_create"])
	_, err = internal.DoRequest(s.client, s.address+data.RouteTimers, http.MethodDelete, nil)
	assert.Nil(t, err)
	_, err = internal.DoRequest(s.client, s.address+data.RouteCounters, http.MethodDelete, nil)
	assert.Nil(t, err)
}

func (s *serviceTest) TestCharts(t *testing.T) {
	var response data.Response

	_, err := internal.DoRequest(s.client, s.address+data.RouteCharts, http.MethodGet, nil, &response)
	assert.Nil(t, err)
	if assert.Len(t, response.Charts, 2) {
		assert.Equal(t, data.ChartTypeDoughnut, response.Charts[0].Type)
		assert.Equal(t, data.ChartTypeBar, response.Charts[1].Type)
	}
}

func (s *serviceTest) TestPayroll(t *testing.T) {
	var body []byte

	//the first request mounts a view, it's polled until the table is shown
	assert.Eventually(t, func() bool {
		var response *http.Response
		response, body = s.do(t, http.MethodGet, data.RoutePayroll, "", nil)
		return response.StatusCode == http.StatusOK &&
			!strings.Contains(string(body), "Loading employee data...")
	}, waitFor, tick)
	assert.Contains(t, string(body), "<h2>Employee Payroll</h2>")
	assert.Equal(t, 3, strings.Count(string(body), "<tr data-id="))
	assert.Contains(t, string(body), "<td>jane.doe@example.com</td>")
	assert.Contains(t, string(body), "<td>51234.5</td>")

	//search by name
	_, body = s.do(t, http.MethodGet, data.RoutePayroll+"?search=lOvE", "", nil)
	assert.Equal(t, 1, strings.Count(string(body), "<tr data-id="))
	assert.Contains(t, string(body), `<tr data-id="1003">`)

	//import a file, the redirect shows the imported employees
	contentType, reader := multipartBody(t, "employees.json", importJson)
	response, body := s.do(t, http.MethodPost, data.RoutePayrollImport, contentType, reader)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, 2, strings.Count(string(body), "<tr data-id="))
	assert.Contains(t, string(body), "<td>Turing</td>")

	//a malformed file is reported and the imported employees are kept
	contentType, reader = multipartBody(t, "employees.json", `{"not": "an array"}`)
	response, body = s.do(t, http.MethodPost, data.RoutePayrollImport, contentType, reader)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Contains(t, string(body), "Error importing employee data")
	assert.Equal(t, 2, strings.Count(string(body), "<tr data-id="))

	//download the employees
	response, body = s.do(t, http.MethodGet, data.RoutePayrollExport, "", nil)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, response.Header.Get("Content-Disposition"), "employee_data.csv")
	assert.Equal(t, "Alan,Turing,alan@example.com,,90000,,,\nGrace,Hopper,grace@example.com,,95000,,,\n", string(body))
}

func (s *serviceTest) TestPayrollFailed(t *testing.T) {
	var body []byte

	assert.Eventually(t, func() bool {
		_, body = s.do(t, http.MethodGet, data.RoutePayroll, "", nil)
		return !strings.Contains(string(body), "Loading employee data...")
	}, waitFor, tick)
	assert.Contains(t, string(body), "Error fetching employee data: ")
	assert.Contains(t, string(body), "network response was not ok")
	assert.NotContains(t, string(body), "<tbody")

	//the failed view doesn't allow an export
	response, _ := s.do(t, http.MethodGet, data.RoutePayrollExport, "", nil)
	assert.Equal(t, http.StatusConflict, response.StatusCode)
}

func TestService(t *testing.T) {
	t.Run("Views", func(t *testing.T) {
		newServiceTest(t, http.StatusOK, employeesJson).TestViews(t)
	})
	t.Run("Charts", func(t *testing.T) {
		newServiceTest(t, http.StatusOK, employeesJson).TestCharts(t)
	})
	t.Run("Payroll", func(t *testing.T) {
		newServiceTest(t, http.StatusOK, employeesJson).TestPayroll(t)
	})
	t.Run("Payroll Failed", func(t *testing.T) {
		newServiceTest(t, http.StatusServiceUnavailable, "unavailable").TestPayrollFailed(t)
	})
}
