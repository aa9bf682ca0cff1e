package utils

import (
	"fmt"
	"net"
	"time"
)

/**
 * Check whether a local TCP port is free
 * @param {int} port - Port number to probe
 * @returns {bool} true when nothing is listening on the port
 * @description
 * - Used as the pre-flight collision check before the application port is handed
 *   to gunicorn; a port that already answers means another service owns it
 */
func CheckPortAvailable(port int) bool {
	timeout := time.Second
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("localhost", fmt.Sprintf("%d", port)), timeout)
	if err != nil {
		// 连接失败，说明端口可用
		return true
	}
	if conn != nil {
		conn.Close()
		// 连接成功，说明端口已被占用
		return false
	}
	return true
}
