// Package client 预约服务的 Go API 客户端
// 每次调用都是一次独立的 HTTP 请求，不做重试与离线缓存
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrRequestInFlight 相同 key 的变更请求仍在进行中
var ErrRequestInFlight = errors.New("相同请求正在处理中")

// ErrNotLoggedIn 本地没有可用 Token
var ErrNotLoggedIn = errors.New("未登录")

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	Status  int
	Code    int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("HTTP %d (%d): %s: %s", e.Status, e.Code, e.Message, e.Details)
	}
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d (%d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// envelope 与服务端统一响应结构一致
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

// Client 并发安全的 API 客户端
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New 创建客户端；tokens 为 nil 时使用内存存储
func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		tokens:   tokens,
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens 返回 Token 存储
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// ── 请求去重 ──

// begin 占用 key；返回的函数释放占用
func (c *Client) begin(key string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return nil, ErrRequestInFlight
	}
	c.inflight[key] = struct{}{}
	return func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	}, nil
}

// InFlight key 对应的请求是否仍在进行
func (c *Client) InFlight(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.inflight[key]
	return busy
}

// ── 底层请求 ──

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	token, err := c.tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("读取 Token 失败: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send 执行请求并返回 2xx 响应体；非 2xx 转为 *APIError
func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env envelope
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
			apiErr.Details = env.Details
		}
		return nil, apiErr
	}
	return raw, nil
}

// call 发送 JSON 请求并将 data 解码到 T
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T

	var rd io.Reader
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return out, fmt.Errorf("序列化请求失败: %w", err)
		}
		rd = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, rd, contentType)
	if err != nil {
		return out, err
	}
	raw, err := c.send(req)
	if err != nil {
		return out, err
	}
	return decodeData[T](raw)
}

// decodeData 解析统一响应并取出 data
// data 缺省（空列表被省略）时返回 T 的零值
func decodeData[T any](raw []byte) (T, error) {
	var out T
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return out, fmt.Errorf("解析响应失败: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("解析响应数据失败: %w", err)
	}
	return out, nil
}

// raw 下载非 JSON 内容（Excel、iCalendar）
func (c *Client) raw(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return c.send(req)
}

func listQuery(skip, limit int) string {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", fmt.Sprint(skip))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
