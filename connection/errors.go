package connection

import (
	"errors"
	"fmt"
)

// ErrorCode 设备会话错误码类型
type ErrorCode string

const (
	// 传输/连接相关错误
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	ErrCodeAuthFailed       ErrorCode = "AUTH_FAILED"

	// 命令执行相关错误
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNoPrivilege  ErrorCode = "NO_PRIVILEGE"
	ErrCodeEncoding     ErrorCode = "ENCODING_FAILED"

	// 配置模式切换错误
	ErrCodeEnterConfig ErrorCode = "ENTER_CONFIG_FAILED"
	ErrCodeExitConfig  ErrorCode = "EXIT_CONFIG_FAILED"
)

// ErrReadTimeout is returned by Transport.Read when no data arrives within
// the bounded wait. At the channel layer a timeout is not an error: it means
// the device has nothing more to say right now.
var ErrReadTimeout = errors.New("read timed out waiting for data")

// DeviceError 设备会话错误
// Command carries the offending command for execution errors, User the
// attempted username for authentication failures.
type DeviceError struct {
	Code    ErrorCode
	Message string
	Command string
	User    string
	Cause   error
}

// Error 实现error接口
func (e *DeviceError) Error() string {
	switch {
	case e.Command != "":
		if e.Cause != nil {
			return fmt.Sprintf("[%s] %q: %s: %v", e.Code, e.Command, e.Message, e.Cause)
		}
		return fmt.Sprintf("[%s] %q: %s", e.Code, e.Command, e.Message)
	case e.User != "":
		return fmt.Sprintf("[%s] user %q: %s", e.Code, e.User, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Unwrap 支持errors.Unwrap
func (e *DeviceError) Unwrap() error {
	return e.Cause
}

// NewDeviceError 创建设备错误
func NewDeviceError(code ErrorCode, message string, cause error) *DeviceError {
	return &DeviceError{Code: code, Message: message, Cause: cause}
}

// NewCommandError 创建命令执行错误（携带出错命令）
func NewCommandError(code ErrorCode, command, message string) *DeviceError {
	return &DeviceError{Code: code, Message: message, Command: command}
}

// NewAuthError 创建认证失败错误（携带尝试的用户名）
func NewAuthError(user string, cause error) *DeviceError {
	return &DeviceError{Code: ErrCodeAuthFailed, Message: "authentication failed", User: user, Cause: cause}
}

// IsCode reports whether err (or anything it wraps) is a DeviceError with
// the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *DeviceError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
