package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/docshelf/internal/client/models"
	"github.com/dmitrijs2005/docshelf/internal/common"
	"github.com/dmitrijs2005/docshelf/internal/logging"
	"github.com/google/uuid"
)

const apiPrefix = "/api/v1"

// Default user-facing messages when the backend gives none.
const (
	msgLoginFailed    = "Login failed."
	msgRegisterFailed = "Registration failed."
	msgUpdateFailed   = "Could not update the account."
	msgAvatarFailed   = "Could not upload the profile picture."
	msgListFailed     = "Could not load documents."
	msgSearchFailed   = "Document search failed."
	msgUploadFailed   = "Upload rejected by the server."
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger

	mu    sync.RWMutex
	token string
}

// envelope is the common response shape of the backend.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client, logger logging.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/") + apiPrefix,
		http:    httpClient,
		logger:  logger.With("component", "api"),
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.User, error) {
	body := map[string]string{"email": email, "password": password}

	var u models.User
	if err := c.doJSON(ctx, http.MethodPost, "/users/login", body, &u, msgLoginFailed); err != nil {
		return models.User{}, err
	}
	u.Normalize()
	if u.UserID == 0 {
		return models.User{}, &APIError{StatusCode: http.StatusOK, Message: msgLoginFailed}
	}
	return u, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodPost, "/users", reg, &u, msgRegisterFailed); err != nil {
		return models.User{}, err
	}
	u.Normalize()
	return u, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, userID int64, upd models.UserUpdate) (models.User, error) {
	var u models.User
	path := "/users/" + strconv.FormatInt(userID, 10)
	if err := c.doJSON(ctx, http.MethodPut, path, upd, &u, msgUpdateFailed); err != nil {
		return models.User{}, err
	}
	u.Normalize()
	return u, nil
}

// UploadProfilePicture sends the image as multipart field "file" and returns
// the URL the backend stored.
func (c *HTTPClient) UploadProfilePicture(ctx context.Context, userID int64, filePath string) (string, error) {
	path := fmt.Sprintf("/users/%d/profile-picture", userID)

	req, err := c.newMultipartRequest(ctx, path, nil, filePath, filepath.Base(filePath), "")
	if err != nil {
		return "", err
	}

	raw, err := c.send(req, msgAvatarFailed)
	if err != nil {
		return "", err
	}

	var resp struct {
		ImageURL string `json:"imageUrl"`
		Data     struct {
			ImageURL string `json:"imageUrl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode avatar response: %w", err)
	}
	if resp.ImageURL == "" {
		resp.ImageURL = resp.Data.ImageURL
	}
	if resp.ImageURL == "" {
		return "", &APIError{StatusCode: http.StatusOK, Message: msgAvatarFailed}
	}
	return resp.ImageURL, nil
}

func (c *HTTPClient) ListUserDocuments(ctx context.Context, userID int64) ([]models.Document, error) {
	var docs []models.Document
	path := "/documents/user/" + strconv.FormatInt(userID, 10)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &docs, msgListFailed); err != nil {
		return nil, err
	}
	return docs, nil
}

// SearchDocuments queries by keyword; an empty keyword lists everything.
func (c *HTTPClient) SearchDocuments(ctx context.Context, keyword string) ([]models.Document, error) {
	var docs []models.Document
	path := "/documents/search?keyword=" + url.QueryEscape(keyword)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &docs, msgSearchFailed); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *HTTPClient) UploadDocument(ctx context.Context, up models.Upload) (models.Document, error) {
	fields := [][2]string{
		{"title", up.Title},
		{"description", up.Description},
		{"userId", strconv.FormatInt(up.UserID, 10)},
	}

	req, err := c.newMultipartRequest(ctx, "/documents", fields, up.FilePath, up.FileName, up.MimeType)
	if err != nil {
		return models.Document{}, err
	}

	raw, err := c.send(req, msgUploadFailed)
	if err != nil {
		return models.Document{}, err
	}

	var doc models.Document
	if err := decodeData(raw, &doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any, defaultMsg string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	raw, err := c.send(req, defaultMsg)
	if err != nil {
		return err
	}
	return decodeData(raw, out)
}

// send performs req and applies the failure convention. It returns the raw
// body of successful responses.
func (c *HTTPClient) send(req *http.Request, defaultMsg string) ([]byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if token := c.currentToken(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	log := c.logger.With("method", req.Method, "path", req.URL.Path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(req.Context(), "request failed", "error", err)
		return nil, c.mapError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.mapError(err)
	}
	log.Debug(req.Context(), "response", "status", resp.StatusCode, "bytes", len(raw))

	var env envelope
	jsonErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := defaultMsg
		if jsonErr == nil && env.Message != "" {
			msg = env.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if jsonErr != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "Server returned non-JSON data: " + truncate(string(raw), 100)}
	}
	if env.Success != nil && !*env.Success {
		msg := defaultMsg
		if env.Message != "" {
			msg = env.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return raw, nil
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// newMultipartRequest streams the file at filePath as form field "file"
// after the plain fields.
func (c *HTTPClient) newMultipartRequest(ctx context.Context, path string, fields [][2]string, filePath, fileName, mimeType string) (*http.Request, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filePath, err)
	}

	if fileName == "" {
		fileName = filepath.Base(filePath)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer f.Close()
		pw.CloseWithError(writeMultipart(mw, fields, f, fileName, mimeType))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

func writeMultipart(mw *multipart.Writer, fields [][2]string, r io.Reader, fileName, mimeType string) error {
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	h.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}

// decodeData unmarshals the envelope's data into out. A missing or null data
// field leaves out untouched.
func decodeData(raw []byte, out any) error {
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
