package data

import (
	"net/url"
	"strconv"
	"strings"
)

type EmployeeSearch struct {
	Term  string `json:"search"`
	Fuzzy bool   `json:"fuzzy"`
}

func (e *EmployeeSearch) ToParams() url.Values {
	params := make(url.Values)
	if e.Term != "" {
		params.Set(ParameterSearch, e.Term)
	}
	if e.Fuzzy {
		params.Set(ParameterFuzzy, strconv.FormatBool(e.Fuzzy))
	}
	return params
}

func (e *EmployeeSearch) FromParams(params url.Values) {
	for key, value := range params {
		if len(value) == 0 {
			continue
		}
		switch strings.ToLower(key) {
		case ParameterSearch:
			e.Term = value[0]
		case ParameterFuzzy:
			e.Fuzzy, _ = strconv.ParseBool(value[0])
		}
	}
}
