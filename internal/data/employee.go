package data

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

var ErrEmployeesNotArray = errors.New("employees must be a json array")

// Value is a scalar employee field kept exactly as it was received
// (a json string or number); it's never validated or normalized
type Value struct {
	raw json.RawMessage
}

func NewValue(v any) Value {
	raw, err := json.Marshal(v)
	if err != nil {
		return Value{}
	}
	return Value{raw: raw}
}

func (v Value) String() string {
	switch {
	case len(v.raw) == 0, bytes.Equal(v.raw, []byte("null")):
		return ""
	case v.raw[0] == '"':
		var s string
		if err := json.Unmarshal(v.raw, &s); err == nil {
			return s
		}
	}
	return string(v.raw)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *Value) UnmarshalJSON(raw []byte) error {
	v.raw = append(v.raw[:0:0], raw...)
	return nil
}

type Employee struct {
	Id            Value `json:"id"`
	ImageUrl      Value `json:"imageUrl"`
	FirstName     Value `json:"firstName"`
	LastName      Value `json:"lastName"`
	Email         Value `json:"email"`
	ContactNumber Value `json:"contactNumber"`
	Age           Value `json:"age"`
	Dob           Value `json:"dob"`
	Salary        Value `json:"salary"`
	Address       Value `json:"address"`
}

// FullName is the first and last name joined by a space
func (e *Employee) FullName() string {
	return e.FirstName.String() + " " + e.LastName.String()
}

func CopyEmployee(e *Employee) *Employee {
	employee := &Employee{}
	*employee = *e
	return employee
}

func CopyEmployees(employees []*Employee) []*Employee {
	copied := make([]*Employee, 0, len(employees))
	for _, employee := range employees {
		copied = append(copied, CopyEmployee(employee))
	}
	return copied
}

// DecodeEmployees parses a json array of employee objects, anything other
// than an array (including null or a null element) is an error
func DecodeEmployees(byts []byte) ([]*Employee, error) {
	byts = bytes.TrimSpace(byts)
	if len(byts) == 0 || byts[0] != '[' {
		return nil, ErrEmployeesNotArray
	}
	employees := []*Employee{}
	if err := json.Unmarshal(byts, &employees); err != nil {
		return nil, err
	}
	for i, employee := range employees {
		if employee == nil {
			return nil, errors.Errorf("employee %d is null", i)
		}
	}
	return employees, nil
}
