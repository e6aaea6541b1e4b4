package channel

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/Hara602/scriptGuard/internal/sysutil"
	"go.uber.org/zap"
)

const (
	// DefaultAddr 本地监听进程的固定地址
	DefaultAddr = "127.0.0.1:5553"
	// DefaultTimeout 连接、读、写共用的超时
	DefaultTimeout = 3000 * time.Millisecond

	// SuccessMessage 发送完成后返回给调用方的字符串
	SuccessMessage = "Script executed successfully"
)

// Phase 标识失败发生在哪个阶段
type Phase string

const (
	PhaseConnect    Phase = "connect"
	PhaseConfigure  Phase = "configure"
	PhaseHeader     Phase = "header"
	PhasePayload    Phase = "payload"
	PhaseTerminator Phase = "terminator"
	PhaseFlush      Phase = "flush"
)

// SendError 传输错误，不重试
type SendError struct {
	Phase Phase
	Err   error
}

func (e *SendError) Error() string {
	switch e.Phase {
	case PhaseConnect:
		return fmt.Sprintf("failed to connect: %v", e.Err)
	case PhaseConfigure:
		return fmt.Sprintf("failed to set timeout: %v", e.Err)
	case PhaseHeader:
		return fmt.Sprintf("failed to write header: %v", e.Err)
	case PhasePayload:
		return fmt.Sprintf("failed to write script: %v", e.Err)
	case PhaseTerminator:
		return fmt.Sprintf("failed to write null terminator: %v", e.Err)
	case PhaseFlush:
		return fmt.Sprintf("failed to flush stream: %v", e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Timeout 区分超时 (WriteTimeout) 与其它写错误 (WriteFailed)
func (e *SendError) Timeout() bool {
	if errors.Is(e.Err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Client 单次发送的控制通道客户端，无状态
type Client struct {
	Addr    string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient 返回使用固定地址和超时的客户端
func NewClient() *Client {
	return &Client{Addr: DefaultAddr, Timeout: DefaultTimeout}
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return sysutil.Log
}

// SendScript 连接监听进程并写入一帧。
// 成功只代表 header/payload/终止符已写出并 flush，监听方的执行结果不可见。
// 调用会阻塞，每个阶段最长 Timeout。
func (c *Client) SendScript(script string) (string, error) {
	msg, err := NewMessage([]byte(script))
	if err != nil {
		return "", err
	}

	addr := c.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return "", &SendError{Phase: PhaseConnect, Err: err}
	}
	defer func() {
		// 关闭失败忽略，终止符 flush 后发送已完成
		_ = conn.Close()
	}()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return "", &SendError{Phase: PhaseConfigure, Err: err}
	}

	w := bufio.NewWriter(conn)
	header := msg.Header()
	stages := []struct {
		phase Phase
		data  []byte
	}{
		{PhaseHeader, header[:]},
		{PhasePayload, msg.Payload()},
		{PhaseTerminator, []byte{0}},
	}
	for _, st := range stages {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return "", &SendError{Phase: PhaseConfigure, Err: err}
		}
		if _, err := w.Write(st.data); err != nil {
			return "", &SendError{Phase: st.phase, Err: err}
		}
	}

	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return "", &SendError{Phase: PhaseConfigure, Err: err}
	}
	if err := w.Flush(); err != nil {
		return "", &SendError{Phase: PhaseFlush, Err: err}
	}

	c.logger().Debug("script sent",
		zap.String("addr", addr),
		zap.Int("bytes", msg.Len()),
	)
	return SuccessMessage, nil
}
