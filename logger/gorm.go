package logger

import (
	gormlogger "gorm.io/gorm/logger"
)

type gormAdapter struct {
	Interface
}

// Gorm adapts l to gorm's logger interface so SQL traces share the backend
func Gorm(l Interface) gormlogger.Interface {
	return gormAdapter{Interface: l}
}

func (g gormAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return gormAdapter{Interface: g.Interface.LogMode(LogLevel(level))}
}
