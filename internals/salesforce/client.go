package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// Config kredensial login Username-Password flow. Password dan security token
// digabung saat login (PASSWORD + TOKEN), sama seperti login SOAP klasik.
type Config struct {
	LoginURL      string // https://login.salesforce.com / https://test.salesforce.com
	ClientID      string
	ClientSecret  string
	Username      string
	Password      string
	SecurityToken string
	APIVersion    string // mis. v59.0
}

type session struct {
	accessToken string
	instanceURL string
}

// Client adalah Record Store produksi: sesi di-cache setelah login pertama,
// aman dipakai lintas goroutine, dan di-reset bila login gagal atau remote
// menjawab 401 sehingga request berikutnya login ulang.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu   sync.Mutex
	sess *session
}

func NewClient(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v59.0"
	}
	cfg.LoginURL = strings.TrimRight(cfg.LoginURL, "/")
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

/* ===================== Session ===================== */

func (c *Client) getSession(ctx context.Context) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != nil {
		return c.sess, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password+c.cfg.SecurityToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.LoginURL+"/services/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("salesforce: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("salesforce: login: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("salesforce: read login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var oauthErr struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		_ = sonic.Unmarshal(body, &oauthErr)
		// sesi tetap nil: request berikutnya coba login lagi
		return nil, &RemoteError{Status: resp.StatusCode, Code: oauthErr.Error, Message: oauthErr.Description}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		InstanceURL string `json:"instance_url"`
	}
	if err := sonic.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("salesforce: decode login response: %w", err)
	}
	if tok.AccessToken == "" || tok.InstanceURL == "" {
		return nil, fmt.Errorf("salesforce: login response tanpa token/instance url")
	}

	log.Println("✅ Login Salesforce berhasil:", tok.InstanceURL)
	c.sess = &session{accessToken: tok.AccessToken, instanceURL: strings.TrimRight(tok.InstanceURL, "/")}
	return c.sess, nil
}

func (c *Client) dropSession(old *session) {
	c.mu.Lock()
	if c.sess == old {
		c.sess = nil
	}
	c.mu.Unlock()
}

/* ===================== Transport ===================== */

// do menjalankan satu request REST relatif terhadap instance URL. Pada 401
// sesi dibuang dan request diulang sekali dengan sesi baru.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	for attempt := 0; attempt < 2; attempt++ {
		sess, err := c.getSession(ctx)
		if err != nil {
			return nil, err
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, sess.instanceURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("salesforce: build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+sess.accessToken)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("salesforce: request %s %s: %w", method, path, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			resp.Body.Close()
			c.dropSession(sess)
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("salesforce: unreachable")
}

// doJSON seperti do, tapi memvalidasi status sukses dan decode body ke dest.
func (c *Client) doJSON(ctx context.Context, method, path string, payload []byte, dest any) error {
	resp, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("salesforce: read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, body)
	}
	if dest == nil || len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("salesforce: decode response: %w", err)
	}
	return nil
}

// Error dari data API berbentuk array: [{"message":...,"errorCode":...}]
func decodeAPIError(status int, body []byte) error {
	var apiErrs []struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	if err := sonic.Unmarshal(body, &apiErrs); err == nil && len(apiErrs) > 0 {
		return &RemoteError{Status: status, Code: apiErrs[0].ErrorCode, Message: apiErrs[0].Message}
	}
	return &RemoteError{Status: status, Code: "unknown", Message: string(body)}
}

func (c *Client) basePath() string {
	return "/services/data/" + c.cfg.APIVersion
}

/* ===================== Store implementation ===================== */

func (c *Client) Query(ctx context.Context, soql string, dest any) error {
	var res struct {
		TotalSize int             `json:"totalSize"`
		Done      bool            `json:"done"`
		Records   json.RawMessage `json:"records"`
	}
	path := c.basePath() + "/query?q=" + url.QueryEscape(soql)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return err
	}
	if len(res.Records) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(res.Records, dest); err != nil {
		return fmt.Errorf("salesforce: decode records: %w", err)
	}
	return nil
}

func (c *Client) Retrieve(ctx context.Context, objectType, id string, dest any) error {
	path := c.basePath() + "/sobjects/" + objectType + "/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodGet, path, nil, dest)
}

func (c *Client) Insert(ctx context.Context, objectType string, record any) (SaveResult, error) {
	payload, err := sonic.Marshal(record)
	if err != nil {
		return SaveResult{}, fmt.Errorf("salesforce: marshal record: %w", err)
	}
	var res SaveResult
	path := c.basePath() + "/sobjects/" + objectType
	if err := c.doJSON(ctx, http.MethodPost, path, payload, &res); err != nil {
		return SaveResult{}, err
	}
	return res, nil
}

func (c *Client) Update(ctx context.Context, objectType, id string, fields any) error {
	payload, err := sonic.Marshal(fields)
	if err != nil {
		return fmt.Errorf("salesforce: marshal fields: %w", err)
	}
	path := c.basePath() + "/sobjects/" + objectType + "/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodPatch, path, payload, nil)
}

func (c *Client) InsertCollection(ctx context.Context, objectType string, records []map[string]any) ([]SaveResult, error) {
	return c.collection(ctx, http.MethodPost, objectType, records)
}

func (c *Client) UpdateCollection(ctx context.Context, objectType string, records []map[string]any) ([]SaveResult, error) {
	return c.collection(ctx, http.MethodPatch, objectType, records)
}

// collection memakai endpoint composite/sobjects: satu round trip untuk ≤200
// record, bukan N request per record.
func (c *Client) collection(ctx context.Context, method, objectType string, records []map[string]any) ([]SaveResult, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if len(records) > 200 {
		return nil, fmt.Errorf("salesforce: collection maksimal 200 record, dapat %d", len(records))
	}

	withAttrs := make([]map[string]any, len(records))
	for i, rec := range records {
		r := make(map[string]any, len(rec)+1)
		for k, v := range rec {
			r[k] = v
		}
		r["attributes"] = map[string]string{"type": objectType}
		withAttrs[i] = r
	}

	payload, err := sonic.Marshal(map[string]any{
		"allOrNone": false,
		"records":   withAttrs,
	})
	if err != nil {
		return nil, fmt.Errorf("salesforce: marshal collection: %w", err)
	}

	var results []SaveResult
	if err := c.doJSON(ctx, method, c.basePath()+"/composite/sobjects", payload, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) VersionData(ctx context.Context, versionID string) (io.ReadCloser, string, error) {
	path := c.basePath() + "/sobjects/ContentVersion/" + url.PathEscape(versionID) + "/VersionData"
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, "", ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, "", decodeAPIError(resp.StatusCode, body)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}
