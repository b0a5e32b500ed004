package internal

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

func GenerateId() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// Envs builds the configuration map from KEY=VALUE pairs (e.g. os.Environ()),
// values found in defaults are only used when the key isn't present in environ
func Envs(environ []string, defaults map[string]string) map[string]string {
	envs := make(map[string]string, len(environ)+len(defaults))
	for key, value := range defaults {
		envs[key] = value
	}
	for _, env := range environ {
		if s := strings.SplitN(env, "=", 2); len(s) > 1 {
			envs[s[0]] = s[1]
		}
	}
	return envs
}

// EnvsFromFiles builds the configuration map from environ, the dotenv files
// that exist are read underneath it
func EnvsFromFiles(environ []string, envFiles ...string) (map[string]string, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			existingFiles = append(existingFiles, envFile)
		}
	}
	if len(existingFiles) == 0 {
		return Envs(environ, nil), nil
	}
	defaults, err := godotenv.Read(existingFiles...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read env files")
	}
	return Envs(environ, defaults), nil
}

// DoRequest is a bare bones http helper used by tests to talk to the service
// without going through the client
func DoRequest(client *http.Client, uri, method string, input interface{}, v ...interface{}) ([]byte, error) {
	var body io.Reader

	switch input := input.(type) {
	case nil:
	case url.Values:
		uri += "?" + input.Encode()
	case []byte:
		body = bytes.NewReader(input)
	default:
		byts, err := json.Marshal(input)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(byts)
	}
	request, err := http.NewRequest(method, uri, body)
	if err != nil {
		return nil, err
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	byts, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	switch response.StatusCode {
	default:
		if len(byts) > 0 {
			return byts, errors.Errorf("%s: %s", response.Status, string(byts))
		}
		return nil, errors.Errorf("%s", response.Status)
	case http.StatusNoContent:
		return []byte{}, nil
	case http.StatusOK:
		if len(v) > 0 {
			return byts, json.Unmarshal(byts, v[0])
		}
		return byts, nil
	}
}
