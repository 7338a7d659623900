package webclient

import "fmt"

// StatusError reports a fetch that completed at the transport level but came
// back with a non-success HTTP status. The pipelines treat any status other
// than 200 as fatal and never decode the body of a failed fetch.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %q: unexpected status %d", e.URL, e.StatusCode)
}

// CheckStatus returns a *StatusError unless the response carries HTTP 200.
func CheckStatus(resp *Response) error {
	if resp == nil {
		return fmt.Errorf("nil response")
	}
	if resp.StatusCode != 200 {
		url := ""
		if resp.Request != nil {
			url = resp.Request.URL
		}
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return nil
}
