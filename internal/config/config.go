package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	// Шаблон итоговой формы (xlsx), данные пишутся с 10-й строки.
	TemplatePath string

	// GPT-анализ позиций ТЗ.
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration
	EnrichWorkers int

	// OCR-фоллбэк для сканов без текстового слоя.
	Pdftoppm  string
	Tesseract string
	OCRLang   string
	OCRDPI    int
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "256"))
	dpi, _ := strconv.Atoi(getenv("OCR_DPI", "300"))
	workers, _ := strconv.Atoi(getenv("ENRICH_WORKERS", "4"))
	timeoutSec, _ := strconv.Atoi(getenv("OPENAI_TIMEOUT_SEC", "45"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  mb,
		LogFile:      getenv("LOG_FILE", "logs/tender-service.log"),

		TemplatePath: getenv("RESULT_TEMPLATE", "Форма для результата.xlsx"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout: time.Duration(timeoutSec) * time.Second,
		EnrichWorkers: workers,

		Pdftoppm:  getenv("PDFTOPPM_BIN", "pdftoppm"),
		Tesseract: getenv("TESSERACT_BIN", "tesseract"),
		OCRLang:   getenv("OCR_LANG", "rus"),
		OCRDPI:    dpi,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
