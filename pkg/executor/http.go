package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flowforge/engine/pkg/httpclient"
	"github.com/flowforge/engine/pkg/security"
	"github.com/flowforge/engine/pkg/template"
	"github.com/flowforge/engine/pkg/types"
)

// HTTPExecutor performs a single outbound HTTP request per node config:
// { method, url, headers, params, body, timeout }. Every string field is
// placeholder-substituted against the node's input before the request is
// built.
type HTTPExecutor struct{}

func (e *HTTPExecutor) NodeType() types.NodeType { return types.NodeTypeHTTP }

func (e *HTTPExecutor) Execute(ctx ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	inputMap, _ := types.AsMap(input)

	rawCfg := template.SubstituteValue(node.Config, inputMap)
	cfg, _ := types.AsMap(rawCfg)

	method := strings.ToUpper(types.GetStringDefault(cfg, "method", "GET"))
	url, ok := types.GetString(cfg, "url")
	if !ok || url == "" {
		return types.Failure(fmt.Errorf("%w: http node requires a url", ErrHTTPRequestFailed), "", 0)
	}

	timeoutSec := types.GetFloat(cfg, "timeout", 30)
	timeout := time.Duration(timeoutSec * float64(time.Second))

	cfgDomains := ctx.Config().AllowedDomains
	if !ctx.Config().AllowHTTP {
		return types.Failure(fmt.Errorf("%w: outbound HTTP is disabled", ErrHTTPRequestFailed), "", 0)
	}

	ssrfConfig := security.SSRFConfig{
		AllowedSchemes:     []string{"http", "https"},
		BlockPrivateIPs:    !ctx.Config().AllowPrivateIPs,
		BlockLocalhost:     !ctx.Config().AllowLocalhost,
		BlockLinkLocal:     !ctx.Config().AllowLinkLocal,
		BlockCloudMetadata: !ctx.Config().AllowCloudMetadata,
		AllowedDomains:     cfgDomains,
	}
	protection := security.NewSSRFProtectionWithConfig(ssrfConfig)
	if err := protection.ValidateURL(url); err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrHTTPRequestFailed, err), "", 0)
	}

	if params, ok := types.GetMap(cfg, "params"); ok && len(params) > 0 {
		url = addQueryParams(url, params)
	}

	var bodyReader io.Reader
	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		if body, ok := cfg["body"]; ok {
			bodyJSON, err := json.Marshal(body)
			if err != nil {
				return types.Failure(fmt.Errorf("%w: %v", ErrHTTPRequestFailed, err), "", 0)
			}
			bodyReader = bytes.NewReader(bodyJSON)
		}
	}

	cctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, method, url, bodyReader)
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrHTTPRequestFailed, err), "", 0)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if headers, ok := types.GetMap(cfg, "headers"); ok {
		for k, v := range headers {
			req.Header.Set(k, types.Stringify(v))
		}
	}

	client, err := getOrBuildClient(ctx.Config(), fmt.Sprintf("http-node-%dms", timeout.Milliseconds()), &httpclient.ClientConfig{
		Timeout:         timeout,
		MaxRedirects:    ctx.Config().MaxHTTPRedirects,
		FollowRedirects: true,
		MaxResponseSize: ctx.Config().MaxResponseSize,
	})
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrHTTPRequestFailed, err), "", 0)
	}

	resp, err := client.Do(req)
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrHTTPRequestFailed, err), "", 0)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, ctx.Config().MaxResponseSize)
	respBody, err := io.ReadAll(limited)
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrHTTPRequestFailed, err), "", 0)
	}

	var data interface{}
	if err := json.Unmarshal(respBody, &data); err != nil {
		data = string(respBody)
	}

	respHeaders := make(map[string]interface{}, len(resp.Header))
	for k, v := range resp.Header {
		if len(v) > 0 {
			respHeaders[k] = v[0]
		}
	}

	output := map[string]interface{}{
		"status_code": resp.StatusCode,
		"headers":     respHeaders,
		"data":        data,
		"url":         url,
		"method":      method,
	}
	if inputMap != nil {
		for k, v := range inputMap {
			if _, exists := output[k]; !exists {
				output[k] = v
			}
		}
	}

	return types.Success(output, 0)
}

// addQueryParams appends params to a URL's query string, stringifying
// non-string values.
func addQueryParams(rawURL string, params map[string]interface{}) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(rawURL)
	first := true
	for k, v := range params {
		if first {
			b.WriteString(sep)
			first = false
		} else {
			b.WriteString("&")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(types.Stringify(v))
	}
	return b.String()
}
