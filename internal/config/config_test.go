package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_DRIVER", "DB_DSN", "DEFAULT_QUIZ", "AUTH_SECRET", "SESSION_BACKEND", "SESSION_TTL", "QUIZ_TIME_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.DB.Driver != "sqlite3" || cfg.DB.DSN != "data/quiz.db" {
		t.Fatalf("unexpected db config %+v", cfg.DB)
	}
	if cfg.Quiz.DefaultQuiz != "Module1_quiz" || cfg.Quiz.TimeLimit != 30 {
		t.Fatalf("unexpected quiz config %+v", cfg.Quiz)
	}
	if cfg.Auth.Secret != devAuthSecret {
		t.Fatalf("expected development secret fallback")
	}
	if cfg.Session.Backend != "memory" || cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("unexpected session config %+v", cfg.Session)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DEFAULT_QUIZ", "Module2_quiz")
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("QUIZ_TIME_LIMIT", "not-a-number")

	cfg := Load()
	if cfg.Server.Addr != ":9090" || cfg.DB.Driver != "postgres" || cfg.Quiz.DefaultQuiz != "Module2_quiz" {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.Auth.Secret != "s3cret" || cfg.Session.Backend != "redis" || cfg.Session.TTL != 90*time.Minute {
		t.Fatalf("unexpected overrides %+v %+v", cfg.Auth, cfg.Session)
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.Redis.DB)
	}
	if cfg.Quiz.TimeLimit != 30 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.Quiz.TimeLimit)
	}
}
