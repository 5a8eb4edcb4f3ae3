package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Options 日志配置，对应 aci.yaml 中的 log.* 配置项
type Options struct {
	Level   string
	File    string // 为空时按时间生成文件名，"-" 表示不写文件
	Console bool
}

type Logger struct {
	*logrus.Logger
	logFile  *os.File
	FileName string
}

func NewLogger(opts Options) (*Logger, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var writers []io.Writer
	l := &Logger{Logger: logrus.New()}

	if opts.File != "-" {
		// 创建日志文件名（按日期-小时分钟命名）
		fileName := opts.File
		if fileName == "" {
			fileName = fmt.Sprintf("aci-%s.log", time.Now().Format("2006-01-02-15-04"))
		}
		logFile, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("无法创建日志文件: %w", err)
		}
		l.logFile = logFile
		l.FileName = fileName
		writers = append(writers, logFile)
	}

	if opts.Console {
		writers = append(writers, os.Stderr)
	}

	if len(writers) == 0 {
		l.SetOutput(io.Discard)
	} else {
		l.SetOutput(io.MultiWriter(writers...))
	}
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   l.logFile != nil,
	})

	if l.FileName != "" {
		l.Debugf("日志记录已启动，详细日志保存到: %s", l.FileName)
	}
	return l, nil
}

func (l *Logger) Close() error {
	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}
