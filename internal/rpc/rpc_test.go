package rpc

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"publisher-keeper/internal/config"
	"publisher-keeper/internal/logger"
)

func init() {
	// 初始化日志系统
	logger.InitLogger(&config.LogConfig{Level: "error", Path: "console"})
}

/**
 * TestHTTPClientGet 测试GET请求
 * @description
 * - 启动httptest服务器模拟守护进程
 * - 验证路径和查询参数正确传递
 * - 验证响应体和状态码正确解析
 */
func TestHTTPClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/publisher/api/v1/status" {
			t.Errorf("请求路径错误: %s", r.URL.Path)
		}
		if r.URL.Query().Get("verbose") != "true" {
			t.Errorf("查询参数错误: %s", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"appName":"publisher"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(&HTTPConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	defer client.Close()

	resp, err := client.Get("/publisher/api/v1/status", map[string]interface{}{"verbose": true})
	if err != nil {
		t.Fatalf("GET请求失败: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("状态码错误: %d", resp.StatusCode)
	}
	if resp.Text != `{"appName":"publisher"}` {
		t.Errorf("响应体错误: %s", resp.Text)
	}
}

/**
 * TestHTTPClientPost 测试POST请求和错误响应解析
 */
func TestHTTPClientPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("请求方法错误: %s", r.Method)
		}
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"provision.in_flight","error":"another provisioning run is in flight"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(&HTTPConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	defer client.Close()

	resp, err := client.Post("/publisher/api/v1/provision", nil)
	if err != nil {
		t.Fatalf("POST请求失败: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("状态码错误: %d", resp.StatusCode)
	}
	// 错误响应解析出统一的error字段
	if resp.Error != "another provisioning run is in flight" {
		t.Errorf("错误字段解析失败: %s", resp.Error)
	}
}

func TestHTTPClientConnectionRefused(t *testing.T) {
	client := NewHTTPClient(&HTTPConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: time.Second,
	})
	defer client.Close()

	if _, err := client.Get("/healthz", nil); err == nil {
		t.Error("连接不上的服务器应当报错")
	}
}

func TestBuildURL(t *testing.T) {
	url, err := buildURL("http://127.0.0.1:9444", "/publisher/api/v1/backups", nil)
	if err != nil {
		t.Fatalf("构建URL失败: %v", err)
	}
	if url != "http://127.0.0.1:9444/publisher/api/v1/backups" {
		t.Errorf("URL错误: %s", url)
	}
}
