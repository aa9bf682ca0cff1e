package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"publisher-keeper/internal/config"
)

// HTTPClient 定义管理接口客户端
// CLI命令先尝试通过它访问publisher-keeper server，失败再回退到本地执行
type HTTPClient interface {
	Get(path string, params map[string]interface{}) (*HTTPResponse, error)
	Post(path string, data interface{}) (*HTTPResponse, error)
	Close() error
}

// HTTPConfig 定义HTTP客户端配置
type HTTPConfig struct {
	Address string        //publisher-keeper服务侦听地址
	Timeout time.Duration // 默认超时时间
	BaseURL string        // 基础URL
}

// DefaultHTTPConfig 返回默认HTTP客户端配置
func DefaultHTTPConfig() *HTTPConfig {
	addr := config.Config.Server.Address
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	if addr == "" {
		addr = "127.0.0.1:9444"
	}
	return &HTTPConfig{
		Address: addr,
		Timeout: 5 * time.Second,
		BaseURL: "http://" + addr,
	}
}

// HTTPResponse 定义HTTP响应结构
type HTTPResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Text       string              `json:"text"`
	Error      string              `json:"error"`
}

// buildURL 构建完整的URL
func buildURL(baseURL, path string, params map[string]interface{}) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = path
	} else {
		u.Path = strings.TrimSuffix(u.Path, "/") + path
	}

	if len(params) > 0 {
		query := u.Query()
		for key, value := range params {
			query.Set(key, fmt.Sprintf("%v", value))
		}
		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}

// deserializeResponse 解析HTTP响应
func deserializeResponse(resp *http.Response) (*HTTPResponse, error) {
	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	httpResp.Body = body
	httpResp.Text = string(body)

	// 错误响应尝试解析统一的错误格式
	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &errBody); err == nil {
			httpResp.Error = errBody.Error
		}
	}

	return httpResp, nil
}
