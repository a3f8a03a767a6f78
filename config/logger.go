package config

import "blog-api/internal/logger"

// InitLogger 는 logging 설정으로 전역 로거를 초기화한다.
// LOG_LEVEL 환경변수는 Parse 단계에서 이미 반영되어 있다.
func InitLogger(cfg LoggingConfig) {
	logger.Init(cfg.Level)
	logger.Log.Debugf("logger initialized level=%s", cfg.Level)
}
