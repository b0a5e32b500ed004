package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/antonio-alexander/go-employee-payroll/internal"
	"github.com/antonio-alexander/go-employee-payroll/internal/data"
	"github.com/antonio-alexander/go-employee-payroll/internal/export"
	"github.com/antonio-alexander/go-employee-payroll/internal/logic"

	"github.com/pkg/errors"
)

func viewIdFromPath(pathVariables map[string]string) string {
	return pathVariables[data.PathViewId]
}

func getCorrelationId(request *http.Request) string {
	if correlationId := request.Header.Get(data.HeaderCorrelationId); correlationId != "" {
		return correlationId
	}
	return internal.GenerateId()
}

func errorStatusCode(err error) int {
	var maxBytesError *http.MaxBytesError

	switch {
	default:
		return http.StatusInternalServerError
	case errors.Is(err, logic.ErrViewNotFound):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrViewNotLoaded):
		return http.StatusConflict
	case errors.Is(err, logic.ErrImportMalformed),
		errors.Is(err, export.ErrFormatUnsupported):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesError):
		return http.StatusRequestEntityTooLarge
	}
}

func handleResponse(writer http.ResponseWriter, err error, items ...interface{}) {
	var bytes []byte

	if err == nil {
		if len(items) == 0 || items[0] == nil {
			writer.WriteHeader(http.StatusNoContent)
			return
		}
		bytes, err = json.Marshal(items[0])
	}
	if err != nil {
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(errorStatusCode(err))
		bytes, err = json.Marshal(&data.Error{Error: err.Error()})
		if err != nil {
			fmt.Printf("error handling response: %s\n", err)
			return
		}
		if _, err := writer.Write(bytes); err != nil {
			fmt.Printf("error handling response: %s\n", err)
		}
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := writer.Write(bytes); err != nil {
		fmt.Printf("error handling response: %s\n", err)
	}
}
