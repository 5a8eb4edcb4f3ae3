package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBarConcurrentIncrement(t *testing.T) {
	var buf bytes.Buffer
	pb := NewProgressBar(8, "Discover")
	pb.SetOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pb.Increment()
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, pb.Current())

	pb.Finish()
	assert.True(t, strings.HasSuffix(buf.String(), "100% (8/8)\n"))
}

func TestProgressBarEmpty(t *testing.T) {
	var buf bytes.Buffer
	pb := NewProgressBar(0, "Discover")
	pb.SetOutput(&buf)
	pb.Finish()
	assert.Contains(t, buf.String(), "(0/0)")
}

func TestStepProgress(t *testing.T) {
	var buf bytes.Buffer
	sp := NewStepProgress(2, nil)
	sp.SetOutput(&buf)

	sp.StartStep("磁盘采集")
	sp.CompleteStep("3 台主机")
	sp.StartStep("写回配置")
	sp.SkipStep("未指定 --write")

	out := buf.String()
	assert.Contains(t, out, "Step 1/2")
	assert.Contains(t, out, "磁盘采集：3 台主机")
	assert.Contains(t, out, "Step 2/2")
	assert.Contains(t, out, "未指定 --write，跳过")
}
