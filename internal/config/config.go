package config

import (
	"errors"
	"image/color"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"watermark-service/internal/watermark"
)

type Config struct {
	Server    ServerConfig
	Font      FontConfig
	Watermark WatermarkConfig
	HTTP      HTTPClientConfig
	Minio     MinioConfig
	Kafka     KafkaConfig
}

type ServerConfig struct {
	Host            string        `env:"HOST" env-default:"0.0.0.0"`
	Port            string        `env:"PORT" env-default:"3333"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"120s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type FontConfig struct {
	// Path to a TTF file; empty selects the embedded default font.
	Path string `env:"FONT_PATH" env-default:""`
}

type WatermarkConfig struct {
	FontHeightRatio float64 `env:"FONT_HEIGHT_RATIO" env-default:"0.10"`
	FontHeightMin   float64 `env:"FONT_HEIGHT_MIN" env-default:"10"`
	FontWidthRatio  float64 `env:"FONT_WIDTH_RATIO" env-default:"0.6"`

	ColorR uint8 `env:"WATERMARK_COLOR_R" env-default:"255"`
	ColorG uint8 `env:"WATERMARK_COLOR_G" env-default:"255"`
	ColorB uint8 `env:"WATERMARK_COLOR_B" env-default:"255"`
	ColorA uint8 `env:"WATERMARK_COLOR_A" env-default:"46"`

	ShadowR uint8 `env:"SHADOW_COLOR_R" env-default:"0"`
	ShadowG uint8 `env:"SHADOW_COLOR_G" env-default:"0"`
	ShadowB uint8 `env:"SHADOW_COLOR_B" env-default:"0"`
	ShadowA uint8 `env:"SHADOW_COLOR_A" env-default:"46"`

	ShadowOffsetRatio  float64 `env:"SHADOW_OFFSET_RATIO" env-default:"0.065"`
	CharSpacingXRatio  float64 `env:"CHAR_SPACING_X_RATIO" env-default:"1.1"`
	CharSpacingYRatio  float64 `env:"CHAR_SPACING_Y_RATIO" env-default:"0.4"`
	GlobalOffsetXRatio float64 `env:"GLOBAL_OFFSET_X_RATIO" env-default:"-0.5"`
	GlobalOffsetYRatio float64 `env:"GLOBAL_OFFSET_Y_RATIO" env-default:"-1.0"`

	JPEGQuality int `env:"JPEG_QUALITY" env-default:"90"`
}

type HTTPClientConfig struct {
	PoolMaxIdle    int           `env:"HTTP_POOL_MAX_IDLE" env-default:"10"`
	ConnectTimeout time.Duration `env:"HTTP_CONNECT_TIMEOUT" env-default:"10s"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"60s"`
	// Base URL the transformed object is posted back to.
	OutputBaseURL string `env:"OUTPUT_BASE_URL" env-default:"http://localhost:9000"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" env-default:"watermarks"`
	UseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
	// Archive toggles best-effort storage of processed images.
	Archive bool `env:"MINIO_ARCHIVE" env-default:"true"`
}

type KafkaConfig struct {
	Brokers      []string `env:"KAFKA_BROKERS" env-separator:","`
	ResultsTopic string   `env:"KAFKA_RESULTS_TOPIC" env-default:"watermark-processed"`
}

// MustLoad reads configuration from the environment. Out-of-range
// values fall back to defaults with a warning; missing storage
// credentials fail startup.
func MustLoad() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	cfg.normalize()

	if cfg.Minio.AccessKey == "" || cfg.Minio.SecretKey == "" {
		return nil, errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required")
	}

	return &cfg, nil
}

// normalize resets out-of-range tuning values to their defaults.
func (c *Config) normalize() {
	def := watermark.DefaultOptions()

	if c.Watermark.JPEGQuality < 1 || c.Watermark.JPEGQuality > 100 {
		zlog.Logger.Warn().Int("value", c.Watermark.JPEGQuality).Msg("JPEG_QUALITY outside 1..100, using default")
		c.Watermark.JPEGQuality = def.JPEGQuality
	}
	if c.Watermark.FontHeightRatio <= 0 {
		zlog.Logger.Warn().Float64("value", c.Watermark.FontHeightRatio).Msg("FONT_HEIGHT_RATIO must be positive, using default")
		c.Watermark.FontHeightRatio = def.FontHeightRatio
	}
	if c.Watermark.FontHeightMin <= 0 {
		zlog.Logger.Warn().Float64("value", c.Watermark.FontHeightMin).Msg("FONT_HEIGHT_MIN must be positive, using default")
		c.Watermark.FontHeightMin = def.FontHeightMin
	}
	if c.Watermark.FontWidthRatio <= 0 {
		zlog.Logger.Warn().Float64("value", c.Watermark.FontWidthRatio).Msg("FONT_WIDTH_RATIO must be positive, using default")
		c.Watermark.FontWidthRatio = def.FontWidthRatio
	}
	if c.Watermark.CharSpacingXRatio <= 0 {
		zlog.Logger.Warn().Float64("value", c.Watermark.CharSpacingXRatio).Msg("CHAR_SPACING_X_RATIO must be positive, using default")
		c.Watermark.CharSpacingXRatio = def.CharSpacingXRatio
	}
	if c.Watermark.CharSpacingYRatio <= 0 {
		zlog.Logger.Warn().Float64("value", c.Watermark.CharSpacingYRatio).Msg("CHAR_SPACING_Y_RATIO must be positive, using default")
		c.Watermark.CharSpacingYRatio = def.CharSpacingYRatio
	}
}

// WatermarkOptions converts the loaded configuration into the engine's
// immutable tuning snapshot.
func (c *Config) WatermarkOptions() watermark.Options {
	w := c.Watermark
	return watermark.Options{
		FontHeightRatio:    w.FontHeightRatio,
		FontHeightMin:      w.FontHeightMin,
		FontWidthRatio:     w.FontWidthRatio,
		MarkColor:          color.NRGBA{R: w.ColorR, G: w.ColorG, B: w.ColorB, A: w.ColorA},
		ShadowColor:        color.NRGBA{R: w.ShadowR, G: w.ShadowG, B: w.ShadowB, A: w.ShadowA},
		ShadowOffsetRatio:  w.ShadowOffsetRatio,
		CharSpacingXRatio:  w.CharSpacingXRatio,
		CharSpacingYRatio:  w.CharSpacingYRatio,
		GlobalOffsetXRatio: w.GlobalOffsetXRatio,
		GlobalOffsetYRatio: w.GlobalOffsetYRatio,
		JPEGQuality:        w.JPEGQuality,
	}
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: 3,
		Delay:    500 * time.Millisecond,
		Backoff:  2,
	}
}
