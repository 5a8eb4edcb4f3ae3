package discover

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/ambari-config-initializer/pkg/topology"
)

// dfCommand 以字节为单位输出 POSIX 格式并包含文件系统类型
const dfCommand = "LC_ALL=C df -PT -B1"

// ParseDF 解析 df -PT -B1 的输出
func ParseDF(out []byte) ([]topology.MountPoint, error) {
	var mounts []topology.MountPoint
	scanner := bufio.NewScanner(bytes.NewReader(out))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "Filesystem") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 7 {
			return nil, fmt.Errorf("line %d: expected 7 columns, got %d: %q", line, len(fields), text)
		}
		available, err := strconv.ParseUint(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid available size %q: %w", line, fields[4], err)
		}
		mounts = append(mounts, topology.MountPoint{
			// 挂载点可能包含空格
			Path:      strings.Join(fields[6:], " "),
			Type:      fields[1],
			Available: &available,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read df output: %w", err)
	}
	if len(mounts) == 0 {
		return nil, fmt.Errorf("no mount points in df output")
	}
	return mounts, nil
}
