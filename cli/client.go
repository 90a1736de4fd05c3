package cli

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/cli/config"
	"github.com/goccy/go-json"
)

var errNotLoggedIn = fmt.Errorf("please login first: animehub auth login")

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return e.Message
}

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// newAPIClient reads the local config. With requireAuth set it fails fast
// when no session token is stored.
func newAPIClient(requireAuth bool) (*apiClient, error) {
	cfg, err := config.Load()
	if err != nil {
		printError("Configuration not initialized")
		fmt.Println("Run: animehub init")
		return nil, err
	}
	if requireAuth && cfg.User.Token == "" {
		printError("You are not logged in")
		return nil, errNotLoggedIn
	}
	return &apiClient{
		baseURL: cfg.ServerURL(),
		token:   cfg.User.Token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// do sends body as JSON and decodes a 2xx response into out. Non-2xx
// responses come back as *apiError carrying the server's "error" field.
func (c *apiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server connection error: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var errRes struct {
			Error string `json:"error"`
		}
		// Non-JSON error bodies fall back to the status code in apiError.Error.
		if err := json.Unmarshal(data, &errRes); err != nil {
			errRes.Error = ""
		}
		return &apiError{Status: res.StatusCode, Message: errRes.Error}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
