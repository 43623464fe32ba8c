// Package restyutil holds helpers shared by the resty API clients.
package restyutil

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// HandleError turns a >399 response into an error. Without this, failing
// responses would have nil error.
func HandleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)",
			res.Request.Method, res.Request.URL, res.StatusCode())
	}
	return res, nil
}
