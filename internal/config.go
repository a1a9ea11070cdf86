package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

// Config drives the binaries. A zero RANDOM_SEED seeds the reply simulator from the clock.
type Config struct {
	LogLevel        string        `env:"LOG_LEVEL,default=INFO" validate:"required"`
	ReplyMinDelay   time.Duration `env:"REPLY_MIN_DELAY,default=1s" validate:"gte=0"`
	ReplyMaxDelay   time.Duration `env:"REPLY_MAX_DELAY,default=3s" validate:"gtefield=ReplyMinDelay"`
	NudgeReplyDelay time.Duration `env:"NUDGE_REPLY_DELAY,default=1500ms" validate:"gte=0"`
	RandomSeed      uint64        `env:"RANDOM_SEED,default=0"`
	EventBufferSize int           `env:"EVENT_BUFFER_SIZE,default=256" validate:"min=1"`
	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,default=500ms" validate:"gt=0"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	LocalUserName   string        `env:"LOCAL_USER_NAME,default=You" validate:"required"`
	LocalUserEmail  string        `env:"LOCAL_USER_EMAIL,default=me@msn.local" validate:"omitempty,email"`
}

// LoadConfig reads the environment, every key has a default.
func LoadConfig() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c Config) Seed(now time.Time) uint64 {
	if c.RandomSeed != 0 {
		return c.RandomSeed
	}
	return uint64(now.UnixNano())
}
