package canopy

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"os"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/http2"
	"golang.org/x/net/publicsuffix"
)

const (
	contentTypeJSON       = "application/json"
	contentTypeMergePatch = "application/merge-patch+json"
)

// dataEnvelope is the request/response envelope used by all planes.
type dataEnvelope struct {
	Data any `json:"data"`
}

// newHttpClient creates the http client used for all plane requests.
// With a CA certificate this uses an http/2 transport that validates the
// platform's certs; without one it falls back to the default transport.
// A cookiejar is included as some deployments use sticky-session cookies.
func newHttpClient(caCertFile string) *http.Client {
	cjar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	var transport http.RoundTripper
	if caCertFile != "" {
		caCertPool := x509.NewCertPool()
		pem, err := os.ReadFile(caCertFile)
		if err == nil && caCertPool.AppendCertsFromPEM(pem) {
			tlsConfig := &tls.Config{RootCAs: caCertPool}
			transport = &http2.Transport{
				TLSClientConfig: tlsConfig,
				DialTLSContext: func(ctx context.Context, network, addr string, cfg *tls.Config) (net.Conn, error) {
					return tls.Dial(network, addr, cfg)
				},
			}
		}
	}
	return &http.Client{
		Transport: transport,
		Jar:       cjar,
	}
}

// send issues one authenticated request and returns the raw response body.
//
// The bearer token is read from live client state at call time. Payloads are
// wrapped in the {"data": ...} envelope. Any non-2xx response or network
// failure propagates as an error; there is no retry and no timeout beyond the
// transport's defaults.
func (c *Client) send(ctx context.Context, method string, rawURL string,
	qParams map[string]string, payload any, contentType string) ([]byte, http.Header, error) {

	var bodyReader io.Reader
	if payload != nil {
		body, err := jsoniter.Marshal(dataEnvelope{Data: payload})
		if err != nil {
			return nil, nil, fmt.Errorf("send: %s %s: encoding request: %w", method, rawURL, err)
		}
		bodyReader = bytes.NewReader(body)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("send: %s %s: %w", method, rawURL, err)
	}
	if contentType == "" {
		contentType = contentTypeJSON
	}
	req.Header.Set("Content-Type", contentType)
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if len(qParams) > 0 {
		qValues := req.URL.Query()
		for k, v := range qParams {
			qValues.Add(k, v)
		}
		req.URL.RawQuery = qValues.Encode()
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("send: %s %s: %w", method, rawURL, err)
	}
	respBody, err := io.ReadAll(httpResp.Body)
	_ = httpResp.Body.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("send: %s %s: reading response: %w", method, rawURL, err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, nil, &APIError{
			Method: method,
			URL:    rawURL,
			Status: httpResp.StatusCode,
			Body:   string(respBody),
		}
	}
	return respBody, httpResp.Header, nil
}

// getData issues a GET and unwraps the data field of the response into out.
func (c *Client) getData(ctx context.Context, rawURL string, qParams map[string]string, out any) error {
	raw, _, err := c.send(ctx, http.MethodGet, rawURL, qParams, nil, "")
	if err != nil {
		return err
	}
	return unwrapData(raw, out)
}

// postData issues a POST with an enveloped payload and unwraps the response
// data field into out. out may be nil when the response body is irrelevant.
func (c *Client) postData(ctx context.Context, rawURL string, payload any, out any) error {
	raw, _, err := c.send(ctx, http.MethodPost, rawURL, nil, payload, "")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return unwrapData(raw, out)
}

// putData issues a PUT with an enveloped payload.
func (c *Client) putData(ctx context.Context, rawURL string, payload any, out any) error {
	raw, _, err := c.send(ctx, http.MethodPut, rawURL, nil, payload, "")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return unwrapData(raw, out)
}

// patchData issues a merge-patch with an enveloped payload.
func (c *Client) patchData(ctx context.Context, rawURL string, payload any, out any) error {
	raw, _, err := c.send(ctx, http.MethodPatch, rawURL, nil, payload, contentTypeMergePatch)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return unwrapData(raw, out)
}

// delete issues a DELETE. Delete responses carry no payload.
func (c *Client) delete(ctx context.Context, rawURL string) error {
	_, _, err := c.send(ctx, http.MethodDelete, rawURL, nil, nil, "")
	return err
}

// unwrapData extracts the data field of a response envelope into out.
func unwrapData(raw []byte, out any) error {
	env := dataEnvelope{Data: out}
	if err := jsoniter.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("unwrapData: malformed response envelope: %w", err)
	}
	return nil
}
