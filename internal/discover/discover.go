package discover

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/apache/ambari-config-initializer/pkg/config"
	"github.com/apache/ambari-config-initializer/pkg/deriver"
	"github.com/apache/ambari-config-initializer/pkg/progress"
	"github.com/apache/ambari-config-initializer/pkg/ssh"
	"github.com/apache/ambari-config-initializer/pkg/topology"
)

const (
	statusPending = "检查中..."
	statusOK      = "成功"
	statusFailed  = "失败"
)

// Runner 在主机上执行命令
type Runner interface {
	Run(ctx context.Context, host config.Host, command string) ([]byte, error)
}

// SSHRunner 每次执行命令时建立新的SSH连接
type SSHRunner struct {
	Options ssh.Options
}

func (r SSHRunner) Run(ctx context.Context, host config.Host, command string) ([]byte, error) {
	client, err := ssh.Dial(ctx, host, r.Options)
	if err != nil {
		return nil, err
	}
	defer client.Close()
	return client.Run(ctx, command)
}

type Options struct {
	Concurrency int
	Timeout     time.Duration
	// OnlyMissing 只采集还没有磁盘信息的主机
	OnlyMissing bool
}

type HostResult struct {
	Name    string
	Address string
	Disks   []topology.MountPoint
	Status  string
	Err     error
}

// Usable 返回可用于存放服务数据的挂载点
func (r *HostResult) Usable() []string {
	var paths []string
	for _, m := range r.Disks {
		if deriver.UsableMountPoint(m) {
			paths = append(paths, m.Path)
		}
	}
	return paths
}

type Discoverer struct {
	config  *config.Config
	logger  *logrus.Logger
	runner  Runner
	options Options
	out     io.Writer
}

func NewDiscoverer(cfg *config.Config, runner Runner, logger *logrus.Logger, opts Options) *Discoverer {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Discoverer{
		config:  cfg,
		logger:  logger,
		runner:  runner,
		options: opts,
		out:     os.Stdout,
	}
}

// SetOutput 修改结果和进度条的输出位置
func (d *Discoverer) SetOutput(w io.Writer) {
	d.out = w
}

// Run 并发采集所有主机的磁盘信息并写入配置。单台主机失败不影响其他主机，
// 全部失败时返回错误。
func (d *Discoverer) Run(ctx context.Context) ([]*HostResult, error) {
	hosts := d.config.Hosts
	if d.options.OnlyMissing {
		hosts = d.config.GetHostsWithoutDisks()
	}
	if len(hosts) == 0 {
		d.logger.Info("No hosts need disk discovery.")
		return nil, nil
	}

	d.logger.Infof("Discovering disks on %d hosts...", len(hosts))

	results := make([]*HostResult, len(hosts))
	bar := progress.NewProgressBar(len(hosts), "Discover")
	bar.SetOutput(d.out)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.options.Concurrency)

	for i, host := range hosts {
		results[i] = &HostResult{Name: host.Name, Address: host.Address(), Status: statusPending}
		g.Go(func() error {
			defer bar.Increment()
			disks, err := d.discoverHost(gctx, host)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[i].Status = statusFailed
				results[i].Err = fmt.Errorf("host[%d] %s: %w", i, host.Name, err)
				d.logger.Warnf("Host %s: disk discovery failed: %v", host.Name, err)
				return nil
			}
			results[i].Disks = disks
			results[i].Status = statusOK
			d.config.SetDisks(host.Name, disks)
			d.logger.Infof("Host %s: found %d mount points", host.Name, len(disks))
			return nil
		})
	}
	_ = g.Wait()
	bar.Finish()

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("disk discovery interrupted: %w", err)
	}

	d.printResults(results)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed == len(results) {
		return results, fmt.Errorf("disk discovery failed on all %d hosts: %w", failed, results[0].Err)
	}
	return results, nil
}

func (d *Discoverer) discoverHost(ctx context.Context, host config.Host) ([]topology.MountPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, d.options.Timeout)
	defer cancel()

	output, err := d.runner.Run(ctx, host, dfCommand)
	if err != nil {
		return nil, err
	}
	return ParseDF(output)
}

// printResults 为每个主机打印一个纵向的信息块
func (d *Discoverer) printResults(results []*HostResult) {
	fmt.Fprintln(d.out, "\n"+strings.Repeat("=", 80))
	fmt.Fprintln(d.out, "                    磁盘采集结果")
	fmt.Fprintln(d.out, strings.Repeat("=", 80))

	passed, failed := 0, 0
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(d.out)
		}

		statusIcon := "✓"
		if r.Status == statusFailed {
			statusIcon = "✗"
			failed++
		} else {
			passed++
		}

		usable := r.Usable()
		usableStr := "无"
		if len(usable) > 0 {
			usableStr = strings.Join(usable, ", ")
		}

		fmt.Fprintf(d.out, "┌─ 主机 #%d %s %s\n", i+1, statusIcon, r.Status)
		fmt.Fprintf(d.out, "│  主机名      : %s\n", r.Name)
		fmt.Fprintf(d.out, "│  地址        : %s\n", r.Address)
		if r.Err != nil {
			fmt.Fprintf(d.out, "│  错误        : %v\n", r.Err)
		} else {
			fmt.Fprintf(d.out, "│  挂载点      : %d 个 (可用 %d 个)\n", len(r.Disks), len(usable))
			fmt.Fprintf(d.out, "│  可用挂载点  : %s\n", usableStr)
		}
		fmt.Fprintln(d.out, "└"+strings.Repeat("─", 50))
	}

	fmt.Fprintln(d.out, strings.Repeat("=", 80))
	fmt.Fprintf(d.out, "采集总结: %d 个主机成功, %d 个主机失败\n", passed, failed)
	fmt.Fprintln(d.out, strings.Repeat("=", 80))
}
