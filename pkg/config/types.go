package config

import "github.com/apache/ambari-config-initializer/pkg/topology"

// Config 集群布局文件：主机、组件分布和磁盘清单
type Config struct {
	Hosts   []Host                         `yaml:"hosts"`
	Masters []topology.MasterComponentHost `yaml:"masters"`
	Slaves  []topology.SlaveComponentHost  `yaml:"slaves,omitempty"`

	// 安装向导中已注册但尚未分配组件的主机的磁盘信息
	RegisteredHosts topology.HostInventory `yaml:"registered_hosts,omitempty"`
}

type Host struct {
	Name     string                `yaml:"name"`         // 主机名，与 masters/slaves 中引用的一致
	IP       string                `yaml:"ip,omitempty"` // SSH 地址，为空时使用 Name
	Port     int                   `yaml:"port,omitempty"`
	User     string                `yaml:"user,omitempty"`
	Password string                `yaml:"password,omitempty"`
	SSHKey   string                `yaml:"ssh_key,omitempty"`
	Disks    []topology.MountPoint `yaml:"disks,omitempty"` // discover 采集或手工填写
}

// Address 返回 SSH 连接地址
func (h Host) Address() string {
	if h.IP != "" {
		return h.IP
	}
	return h.Name
}
