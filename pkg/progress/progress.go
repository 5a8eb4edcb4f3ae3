package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type ProgressBar struct {
	mu      sync.Mutex
	out     io.Writer
	total   int
	current int
	width   int
	prefix  string
	fill    string
	empty   string
}

func NewProgressBar(total int, prefix string) *ProgressBar {
	return &ProgressBar{
		out:    os.Stdout,
		total:  total,
		width:  50,
		prefix: prefix,
		fill:   "█",
		empty:  "░",
	}
}

// SetOutput 修改输出位置，默认为标准输出
func (pb *ProgressBar) SetOutput(w io.Writer) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.out = w
}

// Increment 可并发调用
func (pb *ProgressBar) Increment() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.current < pb.total {
		pb.current++
	}
	pb.render()
}

func (pb *ProgressBar) Current() int {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.current
}

func (pb *ProgressBar) render() {
	percent := 1.0
	if pb.total > 0 {
		percent = float64(pb.current) / float64(pb.total)
	}
	filled := int(percent * float64(pb.width))

	bar := strings.Repeat(pb.fill, filled) + strings.Repeat(pb.empty, pb.width-filled)

	fmt.Fprintf(pb.out, "\r%s [%s] %d%% (%d/%d)",
		pb.prefix,
		bar,
		int(percent*100),
		pb.current,
		pb.total)
}

func (pb *ProgressBar) Finish() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.current = pb.total
	pb.render()
	fmt.Fprintln(pb.out) // 换行
}

type StepProgress struct {
	out         io.Writer
	totalSteps  int
	currentStep int
	stepName    string
	logger      *logrus.Logger
}

// NewStepProgress 创建步骤进度显示器，logger 为空时只输出到控制台
func NewStepProgress(totalSteps int, logger *logrus.Logger) *StepProgress {
	return &StepProgress{
		out:        os.Stdout,
		totalSteps: totalSteps,
		logger:     logger,
	}
}

func (sp *StepProgress) SetOutput(w io.Writer) {
	sp.out = w
}

func (sp *StepProgress) StartStep(stepName string) {
	sp.currentStep++
	sp.stepName = stepName

	if sp.logger != nil {
		sp.logger.Infof("开始步骤 %d/%d: %s", sp.currentStep, sp.totalSteps, stepName)
	}
	fmt.Fprintf(sp.out, "\033[36m[INFO]\033[0m [\033[33mStep %d/%d\033[0m] %s\n", sp.currentStep, sp.totalSteps, stepName)
}

func (sp *StepProgress) CompleteStep(summary string) {
	fmt.Fprintf(sp.out, "\033[36m[INFO]\033[0m [\033[32mStep %d/%d\033[0m] %s：%s。\n", sp.currentStep, sp.totalSteps, sp.stepName, summary)
	if sp.logger != nil {
		sp.logger.Infof("步骤完成: %s - %s", sp.stepName, summary)
	}
}

// SkipStep 跳过步骤
func (sp *StepProgress) SkipStep(reason string) {
	fmt.Fprintf(sp.out, "\033[36m[INFO]\033[0m [\033[33mStep %d/%d\033[0m] %s，跳过。\n", sp.currentStep, sp.totalSteps, reason)
	if sp.logger != nil {
		sp.logger.Infof("步骤跳过: %s - %s", sp.stepName, reason)
	}
}

func (sp *StepProgress) FailStep(errorMsg string) {
	fmt.Fprintf(sp.out, "\033[36m[INFO]\033[0m [\033[31mStep %d/%d\033[0m] %s失败。原因：\033[31m%s\033[0m\n", sp.currentStep, sp.totalSteps, sp.stepName, errorMsg)
	if sp.logger != nil {
		sp.logger.Errorf("步骤失败: %s - %s", sp.stepName, errorMsg)
	}
}
