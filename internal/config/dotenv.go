package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv .env 파일 로드. 우선순위: 이미 설정된 OS 환경변수 > .env.<APP_ENV> > .env.local > .env
// 로드된 파일 목록 반환
func LoadDotEnv() []string {
	candidates := []string{".env.local", ".env"}
	if env := os.Getenv("APP_ENV"); env != "" && env != "local" {
		candidates = append([]string{".env." + env}, candidates...)
	}
	return loadDotEnvFiles(candidates...)
}

// godotenv.Load 는 기존 값을 덮어쓰지 않으므로 앞쪽 파일이 우선한다
func loadDotEnvFiles(candidates ...string) []string {
	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
