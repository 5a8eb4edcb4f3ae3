package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apache/ambari-config-initializer/pkg/topology"
)

const defaultSSHPort = 22

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config path is required")
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig 解析并校验 YAML 格式的布局文件
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config.PostProcessConfig()

	return &config, nil
}

// SaveConfig 保存配置到文件
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(absPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func validateConfig(config *Config) error {
	if len(config.Hosts) == 0 && len(config.Masters) == 0 && len(config.Slaves) == 0 {
		return fmt.Errorf("at least one host or component must be specified")
	}

	seen := make(map[string]bool)
	for i, host := range config.Hosts {
		name := strings.TrimSpace(host.Name)
		if name == "" {
			return fmt.Errorf("host[%d]: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("host[%d]: duplicate host name %s", i, name)
		}
		seen[name] = true
		if host.Port < 0 || host.Port > 65535 {
			return fmt.Errorf("host[%d]: invalid port %d", i, host.Port)
		}
		for j, disk := range host.Disks {
			if disk.Path == "" {
				return fmt.Errorf("host[%d]: disk[%d]: mountpoint is required", i, j)
			}
		}
	}

	for i, m := range config.Masters {
		if strings.TrimSpace(m.Component) == "" {
			return fmt.Errorf("master[%d]: component is required", i)
		}
		if strings.TrimSpace(m.HostName) == "" {
			return fmt.Errorf("master[%d] %s: host is required", i, m.Component)
		}
	}

	for i, s := range config.Slaves {
		if strings.TrimSpace(s.ComponentName) == "" {
			return fmt.Errorf("slave[%d]: component is required", i)
		}
		for j, h := range s.Hosts {
			if strings.TrimSpace(h) == "" {
				return fmt.Errorf("slave[%d] %s: host[%d] is empty", i, s.ComponentName, j)
			}
		}
	}

	return nil
}

// ValidateSSH 校验 discover 所需的 SSH 连接信息
func (c *Config) ValidateSSH() error {
	for i, host := range c.Hosts {
		if host.User == "" {
			return fmt.Errorf("host[%d] %s: user is required", i, host.Name)
		}
	}
	return nil
}

// PostProcessConfig 规范化主机名并设置默认 SSH 端口
func (c *Config) PostProcessConfig() {
	for i := range c.Hosts {
		c.Hosts[i].Name = strings.TrimSpace(c.Hosts[i].Name)
		if c.Hosts[i].Port == 0 {
			c.Hosts[i].Port = defaultSSHPort
		}
	}
	for i := range c.Masters {
		c.Masters[i].Component = strings.TrimSpace(c.Masters[i].Component)
		c.Masters[i].HostName = strings.TrimSpace(c.Masters[i].HostName)
	}
	for i := range c.Slaves {
		c.Slaves[i].ComponentName = strings.TrimSpace(c.Slaves[i].ComponentName)
		for j := range c.Slaves[i].Hosts {
			c.Slaves[i].Hosts[j] = strings.TrimSpace(c.Slaves[i].Hosts[j])
		}
	}
}

// GetHost 按名称查找主机
func (c *Config) GetHost(name string) (Host, bool) {
	for _, host := range c.Hosts {
		if host.Name == name {
			return host, true
		}
	}
	return Host{}, false
}

// GetHostsWithoutDisks 返回还没有磁盘信息的主机
func (c *Config) GetHostsWithoutDisks() []Host {
	var hosts []Host
	for _, host := range c.Hosts {
		if len(host.Disks) == 0 {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

// SetDisks 更新主机的磁盘清单
func (c *Config) SetDisks(name string, disks []topology.MountPoint) bool {
	for i := range c.Hosts {
		if c.Hosts[i].Name == name {
			c.Hosts[i].Disks = disks
			return true
		}
	}
	return false
}

// Topology 构建派生使用的拓扑快照。hosts 中的磁盘信息优先，
// registered_hosts 只补充缺失的主机。
func (c *Config) Topology() *topology.Topology {
	inv := make(topology.HostInventory)
	for _, host := range c.Hosts {
		if host.Disks != nil {
			inv[host.Name] = host.Disks
		}
	}
	inv.MergeMissing(c.RegisteredHosts)

	return &topology.Topology{
		Masters: append([]topology.MasterComponentHost(nil), c.Masters...),
		Slaves:  append([]topology.SlaveComponentHost(nil), c.Slaves...),
		Hosts:   inv,
	}
}
