package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"publisher-keeper/internal/logger"
)

// httpClient HTTP客户端实现
type httpClient struct {
	config *HTTPConfig
	client *http.Client
}

// NewHTTPClient 创建HTTP客户端实例
/**
 * Create new HTTP client for talking to the management daemon
 * @param {*HTTPConfig} config - HTTP client configuration, nil uses defaults
 * @returns {HTTPClient} HTTP client interface
 * @description
 * - Connects to the publisher-keeper server address from configuration
 * - A daemon that is not running simply yields connection errors; callers
 *   fall back to local execution in that case
 */
func NewHTTPClient(config *HTTPConfig) HTTPClient {
	if config == nil {
		config = DefaultHTTPConfig()
	}

	return &httpClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Get 发送GET请求
func (c *httpClient) Get(path string, params map[string]interface{}) (*HTTPResponse, error) {
	url, err := buildURL(c.config.BaseURL, path, params)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Get(url)
	if err != nil {
		logger.Debugf("GET %s failed: %v", url, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return deserializeResponse(resp)
}

// Post 发送POST请求
func (c *httpClient) Post(path string, data interface{}) (*HTTPResponse, error) {
	url, err := buildURL(c.config.BaseURL, path, nil)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&body).Encode(data); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	resp, err := c.client.Post(url, "application/json", &body)
	if err != nil {
		logger.Debugf("POST %s failed: %v", url, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return deserializeResponse(resp)
}

// Close 关闭客户端连接
func (c *httpClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
