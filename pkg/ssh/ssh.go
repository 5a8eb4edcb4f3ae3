package ssh

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/term"

	"github.com/apache/ambari-config-initializer/pkg/config"
)

const defaultTimeout = 10 * time.Second

// Options SSH连接选项
type Options struct {
	Timeout     time.Duration
	Password    string // 统一密码，主机未配置密码和密钥时使用
	Interactive bool   // 允许在终端提示输入密码
}

// Client 到单台主机的SSH连接
type Client struct {
	host   config.Host
	client *ssh.Client
}

// Dial 使用主机配置的密钥或密码建立SSH连接
func Dial(ctx context.Context, host config.Host, opts Options) (*Client, error) {
	auth, err := authMethods(host, opts)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	clientConfig := &ssh.ClientConfig{
		User:            host.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // 注意：生产环境中应该验证主机密钥
		Timeout:         timeout,
	}

	port := host.Port
	if port == 0 {
		port = 22
	}
	addr := net.JoinHostPort(host.Address(), strconv.Itoa(port))

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("SSH连接失败: %w", err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("SSH认证失败: %w", err)
	}

	return &Client{host: host, client: ssh.NewClient(c, chans, reqs)}, nil
}

// Run 执行命令并返回合并后的输出，ctx 取消时关闭会话
func (c *Client) Run(ctx context.Context, command string) ([]byte, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("创建SSH会话失败: %w", err)
	}
	defer session.Close()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := session.CombinedOutput(command)
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		session.Close()
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return r.out, fmt.Errorf("执行命令失败: %w\n输出: %s", r.err, string(r.out))
		}
		return r.out, nil
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Host 返回连接对应的主机
func (c *Client) Host() config.Host {
	return c.host
}

func authMethods(host config.Host, opts Options) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if host.SSHKey != "" {
		signer, err := loadSigner(host.SSHKey)
		if err != nil {
			return nil, err
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	password := host.Password
	if password == "" {
		password = opts.Password
	}
	if password != "" {
		methods = append(methods, ssh.Password(password))
	}

	if len(methods) > 0 {
		return methods, nil
	}

	// 默认尝试 ~/.ssh/id_rsa
	if signer, err := loadSigner("~/.ssh/id_rsa"); err == nil {
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if opts.Interactive {
		methods = append(methods, ssh.PasswordCallback(func() (string, error) {
			return PromptForPassword(host)
		}))
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("主机 %s 未配置密码或密钥", host.Name)
	}
	return methods, nil
}

func loadSigner(keyPath string) (ssh.Signer, error) {
	path, err := expandHome(keyPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取私钥文件失败: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("解析私钥失败: %w", err)
	}
	return signer, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("无法获取用户主目录: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// PromptForPassword 提示用户输入密码
func PromptForPassword(host config.Host) (string, error) {
	fmt.Printf("请输入主机 %s (%s@%s) 的密码: ", host.Name, host.User, host.Address())

	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	fmt.Println() // 换行，因为ReadPassword不会自动换行

	return strings.TrimSpace(string(password)), nil
}
