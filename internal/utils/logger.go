package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger 配置全局日志输出
// 设置了 logFile 时同时写入按大小滚动的日志文件
func SetupLogger(logFile string) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if logFile == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     14, // 天
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
