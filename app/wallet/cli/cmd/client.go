package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/blockcoin/business/web/errs"
)

// client talks to the node's v1 api.
type client struct {
	url  string
	http http.Client
}

// do sends the request and decodes a successful response into out. Failures
// reported by the node are returned with the node's message.
func (c client) do(method string, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, c.url+"/v1"+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if c.http.Timeout == 0 {
		c.http.Timeout = 10 * time.Second
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var er errs.Response
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error == "" {
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		}

		msg := er.Error
		for field, fe := range er.Fields {
			msg += fmt.Sprintf(", %s: %s", field, fe)
		}
		return errors.New(msg)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
