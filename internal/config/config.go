package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	GeminiAPIKey string
	HTTPPort     string
	TraceDBPath  string
	LogLevel     string
	Tuning       Tuning
}

// Tuning holds the retrieval parameters that are tunable but not
// load-bearing for correctness: chunking geometry, how many chunks a
// question retrieves, and the deadline on provider calls.
type Tuning struct {
	ChunkSize      int `yaml:"chunk_size"`
	ChunkOverlap   int `yaml:"chunk_overlap"`
	TopK           int `yaml:"top_k"`
	RequestTimeout int `yaml:"request_timeout_secs"`
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		TraceDBPath:  getEnv("TRACE_DB", "asknotes_trace.db"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		Tuning:       loadTuning(getEnv("TUNING_FILE", "asknotes.yaml")),
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}
}

// loadTuning reads the optional YAML tuning file. A missing file is not an
// error; defaults are applied for any value left unset.
func loadTuning(path string) Tuning {
	var t Tuning
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &t); err != nil {
			log.Printf("Ignoring malformed tuning file %s: %v", path, err)
			t = Tuning{}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Printf("Could not read tuning file %s: %v", path, err)
	}
	applyTuningDefaults(&t)
	return t
}

func applyTuningDefaults(t *Tuning) {
	if t.ChunkSize <= 0 {
		t.ChunkSize = 1000
	}
	if t.ChunkOverlap < 0 || t.ChunkOverlap >= t.ChunkSize {
		t.ChunkOverlap = t.ChunkSize / 10
	}
	if t.TopK <= 0 {
		t.TopK = 4
	}
	if t.RequestTimeout <= 0 {
		t.RequestTimeout = 60
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
