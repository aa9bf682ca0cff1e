package utils

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"text/template"

	"publisher-keeper/internal/logger"
)

// CommandRunner 执行外部命令，返回合并后的输出
// 步骤逻辑通过它执行apt/ufw/systemctl等命令，测试时可以替换成假实现
type CommandRunner func(ctx context.Context, name string, args ...string) (string, error)

/**
 * Run external command and capture combined output
 * @param {context.Context} ctx - Context for cancellation; an interrupted run kills the command
 * @param {string} name - Command name
 * @param {[]string} args - Command arguments
 * @returns {string} Combined stdout and stderr of the command
 * @returns {error} Error carrying the command line and trailing output on failure
 * @description
 * - Blocks until the command finishes
 * - Output is logged at debug level, failures at error level
 * - Failure messages keep whatever the underlying tool printed, no rewriting
 */
func RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	logger.Debugf("exec: %s %s", name, strings.Join(args, " "))
	err := cmd.Run()
	output := buf.String()
	if err != nil {
		logger.Errorf("command failed: %s %s: %v", name, strings.Join(args, " "), err)
		return output, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, TailLines(output, 5))
	}
	logger.Debugf("command output: %s", TailLines(output, 3))
	return output, nil
}

/**
 * Render command and argument templates with the given data
 * @param {string} command - Command template string
 * @param {[]string} args - Argument template strings
 * @param {interface{}} data - Template data
 * @returns {string} Rendered command
 * @returns {[]string} Rendered arguments
 * @returns {error} Returns error if template parsing or execution fails
 */
func GetCommandLine(command string, args []string, data interface{}) (string, []string, error) {
	cmdTemplate, err := template.New("command").Parse(command)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse command template: %w", err)
	}

	var cmdBuf bytes.Buffer
	if err := cmdTemplate.Execute(&cmdBuf, data); err != nil {
		return "", nil, fmt.Errorf("failed to execute command template: %w", err)
	}

	// 处理Args模板
	var processedArgs []string
	for _, arg := range args {
		argTemplate, err := template.New("arg").Parse(arg)
		if err != nil {
			return "", nil, fmt.Errorf("failed to parse arg template '%s': %w", arg, err)
		}

		var argBuf bytes.Buffer
		if err := argTemplate.Execute(&argBuf, data); err != nil {
			return "", nil, fmt.Errorf("failed to execute arg template '%s': %w", arg, err)
		}

		processedArgs = append(processedArgs, strings.TrimSpace(argBuf.String()))
	}

	return cmdBuf.String(), processedArgs, nil
}

// TailLines 返回输出的最后n行，命令输出太长时只保留结尾部分
func TailLines(output string, n int) string {
	trimmed := strings.TrimRight(output, "\n")
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) <= n {
		return trimmed
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
