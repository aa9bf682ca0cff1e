package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"publisher-keeper/internal/config"
)

// systemd单元模板，每次provision都会重新渲染并覆盖旧文件
const unitTemplate = `[Unit]
Description={{.Name}} web application
After=network.target

[Service]
User={{.User}}
Group={{.User}}
WorkingDirectory={{.Dir}}
Environment="SECRET_KEY={{.Secret}}"
Environment="FLASK_DEBUG=0"
ExecStart={{.Dir}}/venv/bin/gunicorn --workers {{.Workers}} --timeout {{.Timeout}} --bind 127.0.0.1:{{.Port}} app:app
Restart=always
RestartSec=5

[Install]
WantedBy=multi-user.target
`

// nginx站点模板：/static/直接由nginx提供并长缓存，其余路径全部转发给应用
const proxySiteTemplate = `server {
    listen 80;
    server_name {{.Domain}};

    client_max_body_size 64M;

    location /static/ {
        alias {{.Dir}}/static/;
        expires 30d;
        add_header Cache-Control "public";
    }

    location / {
        proxy_pass http://127.0.0.1:{{.Port}};
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
        proxy_read_timeout 120s;
    }
}
`

type unitData struct {
	Name    string
	User    string
	Dir     string
	Secret  string
	Workers int
	Timeout int
	Port    int
}

type proxySiteData struct {
	Domain string
	Dir    string
	Port   int
}

/**
 * Render the systemd unit descriptor for the application
 * @param {*config.AppTarget} target - Provisioning target
 * @param {string} secret - Freshly generated session signing secret
 * @returns {string} Rendered unit file text
 * @returns {error} Returns error on template failure or invalid output
 * @description
 * - Pure function of target plus secret; validated before anything is written
 * - An empty secret is rejected so a broken entropy source cannot produce a
 *   unit with an unsigned session key
 */
func RenderUnit(target *config.AppTarget, secret string) (string, error) {
	if len(secret) < SecretBytes*2 {
		return "", fmt.Errorf("secret too short: %d chars, want at least %d", len(secret), SecretBytes*2)
	}
	text, err := renderTemplate("unit", unitTemplate, unitData{
		Name:    target.Name,
		User:    target.User,
		Dir:     target.Dir,
		Secret:  secret,
		Workers: target.Workers,
		Timeout: target.Timeout,
		Port:    target.Port,
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

/**
 * Render the nginx site descriptor for the application
 * @param {*config.AppTarget} target - Provisioning target
 * @returns {string} Rendered site block text
 * @returns {error} Returns error on template failure or invalid output
 */
func RenderProxySite(target *config.AppTarget) (string, error) {
	return renderTemplate("proxy-site", proxySiteTemplate, proxySiteData{
		Domain: target.Domain,
		Dir:    target.Dir,
		Port:   target.Port,
	})
}

// renderTemplate 渲染模板并校验输出，占位符残留会在这里被拦截
// 而不是等到nginx -t或systemd加载时才发现
func renderTemplate(name, text string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}

	rendered := buf.String()
	if strings.Contains(rendered, "<no value>") {
		return "", fmt.Errorf("%s template left unsubstituted placeholders", name)
	}
	return rendered, nil
}
