package config

import (
	"errors"
	"os"
	"strings"
	"testing"
)

// validBaseConfig returns a Config with all required fields set.
func validBaseConfig() *Config {
	return &Config{
		Provider:         ProviderGemini,
		ModelName:        "gemini-2.5-flash",
		Temperature:      0.7,
		MaxTokens:        2048,
		EmbedderModel:    "gemini-embedding-001",
		ChunkSize:        500,
		ChunkOverlap:     50,
		RAGTopK:          3,
		PostgresHost:     "localhost",
		PostgresPort:     5432,
		PostgresPassword: "test_password",
		PostgresDBName:   "mentor",
		PostgresSSLMode:  "disable",
	}
}

// setAPIKey sets the required Gemini API key and returns a cleanup function.
func setAPIKey(t *testing.T) func() {
	t.Helper()
	if err := os.Setenv("GEMINI_API_KEY", "test-api-key"); err != nil {
		t.Fatalf("setting GEMINI_API_KEY: %v", err)
	}
	return func() { os.Unsetenv("GEMINI_API_KEY") }
}

// TestValidateSuccess tests successful validation.
func TestValidateSuccess(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	cfg := validBaseConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error with valid config: %v", err)
	}
}

// TestValidateMissingAPIKey tests that a missing GEMINI_API_KEY is rejected.
func TestValidateMissingAPIKey(t *testing.T) {
	os.Unsetenv("GEMINI_API_KEY")

	cfg := validBaseConfig()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing API key, got nil")
	}
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error should be ErrMissingAPIKey, got: %v", err)
	}
}

// TestValidateModelName tests model name validation.
func TestValidateModelName(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	cfg := validBaseConfig()
	cfg.ModelName = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty model name, got nil")
	}
	if !errors.Is(err, ErrInvalidModelName) {
		t.Errorf("error should be ErrInvalidModelName, got: %v", err)
	}
}

// TestValidateTemperature tests temperature range validation.
func TestValidateTemperature(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	tests := []struct {
		name        string
		temperature float32
		wantErr     bool
	}{
		{name: "valid min", temperature: 0.0},
		{name: "valid mid", temperature: 1.0},
		{name: "valid max", temperature: 2.0},
		{name: "invalid negative", temperature: -0.1, wantErr: true},
		{name: "invalid too high", temperature: 2.1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.Temperature = tt.temperature

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error for temperature %.2f, got nil", tt.temperature)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for temperature %.2f: %v", tt.temperature, err)
			}
			if tt.wantErr && err != nil && !errors.Is(err, ErrInvalidTemperature) {
				t.Errorf("error should be ErrInvalidTemperature, got: %v", err)
			}
		})
	}
}

// TestValidateMaxTokens tests max tokens range validation.
func TestValidateMaxTokens(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	tests := []struct {
		name      string
		maxTokens int
		wantErr   bool
	}{
		{name: "valid min", maxTokens: 1},
		{name: "valid mid", maxTokens: 100000},
		{name: "valid max", maxTokens: 2097152},
		{name: "invalid zero", maxTokens: 0, wantErr: true},
		{name: "invalid negative", maxTokens: -1, wantErr: true},
		{name: "invalid too high", maxTokens: 2097153, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.MaxTokens = tt.maxTokens

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error for max_tokens %d, got nil", tt.maxTokens)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for max_tokens %d: %v", tt.maxTokens, err)
			}
			if tt.wantErr && err != nil && !errors.Is(err, ErrInvalidMaxTokens) {
				t.Errorf("error should be ErrInvalidMaxTokens, got: %v", err)
			}
		})
	}
}

// TestValidateChunking tests chunk size and overlap validation.
func TestValidateChunking(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "defaults", size: 500, overlap: 50},
		{name: "no overlap", size: 100, overlap: 0},
		{name: "minimal", size: 1, overlap: 0},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "negative size", size: -1, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: true},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: true},
		{name: "overlap exceeds size", size: 100, overlap: 200, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.ChunkSize = tt.size
			cfg.ChunkOverlap = tt.overlap

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error for size=%d overlap=%d, got nil", tt.size, tt.overlap)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for size=%d overlap=%d: %v", tt.size, tt.overlap, err)
			}
			if tt.wantErr && err != nil && !errors.Is(err, ErrInvalidChunking) {
				t.Errorf("error should be ErrInvalidChunking, got: %v", err)
			}
		})
	}
}

// TestValidateRAGTopK tests retrieval depth validation.
func TestValidateRAGTopK(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	tests := []struct {
		name    string
		topK    int
		wantErr bool
	}{
		{name: "valid min", topK: 1},
		{name: "valid default", topK: 3},
		{name: "valid max", topK: 10},
		{name: "invalid zero", topK: 0, wantErr: true},
		{name: "invalid negative", topK: -1, wantErr: true},
		{name: "invalid too high", topK: 11, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.RAGTopK = tt.topK

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error for rag_top_k %d, got nil", tt.topK)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for rag_top_k %d: %v", tt.topK, err)
			}
			if tt.wantErr && err != nil && !errors.Is(err, ErrInvalidRAGTopK) {
				t.Errorf("error should be ErrInvalidRAGTopK, got: %v", err)
			}
		})
	}
}

// TestValidateEmbedderModel tests embedder model validation.
func TestValidateEmbedderModel(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	cfg := validBaseConfig()
	cfg.EmbedderModel = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty embedder_model, got nil")
	}
	if !errors.Is(err, ErrInvalidEmbedderModel) {
		t.Errorf("Validate() error = %v, want ErrInvalidEmbedderModel", err)
	}
}

// TestValidatePostgresHost tests PostgreSQL host validation.
func TestValidatePostgresHost(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	cfg := validBaseConfig()
	cfg.PostgresHost = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty postgres_host, got nil")
	}
	if !errors.Is(err, ErrInvalidPostgresHost) {
		t.Errorf("error should be ErrInvalidPostgresHost, got: %v", err)
	}
}

// TestValidatePostgresPort tests PostgreSQL port validation.
func TestValidatePostgresPort(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{name: "valid min", port: 1},
		{name: "valid standard", port: 5432},
		{name: "valid max", port: 65535},
		{name: "invalid zero", port: 0, wantErr: true},
		{name: "invalid negative", port: -1, wantErr: true},
		{name: "invalid too high", port: 65536, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.PostgresPort = tt.port

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error for port %d, got nil", tt.port)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for port %d: %v", tt.port, err)
			}
			if tt.wantErr && err != nil && !errors.Is(err, ErrInvalidPostgresPort) {
				t.Errorf("error should be ErrInvalidPostgresPort, got: %v", err)
			}
		})
	}
}

// TestValidatePostgresDBName tests PostgreSQL database name validation.
func TestValidatePostgresDBName(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	cfg := validBaseConfig()
	cfg.PostgresDBName = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty postgres_db_name, got nil")
	}
	if !errors.Is(err, ErrInvalidPostgresDBName) {
		t.Errorf("error should be ErrInvalidPostgresDBName, got: %v", err)
	}
}

// TestValidatePostgresPassword tests PostgreSQL password validation.
func TestValidatePostgresPassword(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	tests := []struct {
		name      string
		password  string
		wantErr   bool
		errSubstr string
	}{
		{name: "valid password", password: "securepass123"},
		{name: "valid long password", password: "very_secure_password_with_many_chars"},
		{name: "empty password", password: "", wantErr: true, errSubstr: "must be set"},
		{name: "too short 1 char", password: "a", wantErr: true, errSubstr: "at least 8 characters"},
		{name: "too short 7 chars", password: "1234567", wantErr: true, errSubstr: "at least 8 characters"},
		{name: "exactly 8 chars", password: "12345678"},
		{name: "default dev password", password: "mentor_dev_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.PostgresPassword = tt.password

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error for password %q, got nil", tt.password)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for password %q: %v", tt.password, err)
			}
			if tt.wantErr && err != nil {
				if !errors.Is(err, ErrInvalidPostgresPassword) {
					t.Errorf("error should be ErrInvalidPostgresPassword, got: %v", err)
				}
				if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("error should contain %q, got: %v", tt.errSubstr, err)
				}
			}
		})
	}
}

// TestValidatePostgresSSLMode tests PostgreSQL SSL mode validation.
func TestValidatePostgresSSLMode(t *testing.T) {
	cleanup := setAPIKey(t)
	defer cleanup()

	tests := []struct {
		name    string
		sslMode string
		wantErr bool
	}{
		{name: "valid disable", sslMode: "disable"},
		{name: "valid require", sslMode: "require"},
		{name: "valid verify-ca", sslMode: "verify-ca"},
		{name: "valid verify-full", sslMode: "verify-full"},
		{name: "invalid empty", sslMode: "", wantErr: true},
		{name: "invalid mode", sslMode: "invalid", wantErr: true},
		{name: "typo disabled", sslMode: "disabled", wantErr: true},
		{name: "deprecated allow", sslMode: "allow", wantErr: true},
		{name: "deprecated prefer", sslMode: "prefer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.PostgresSSLMode = tt.sslMode

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error for SSL mode %q, got nil", tt.sslMode)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for SSL mode %q: %v", tt.sslMode, err)
			}
			if tt.wantErr && err != nil && !errors.Is(err, ErrInvalidPostgresSSLMode) {
				t.Errorf("error should be ErrInvalidPostgresSSLMode, got: %v", err)
			}
		})
	}
}

// TestNormalizeMaxHistoryMessages tests clamping of client-supplied history limits.
func TestNormalizeMaxHistoryMessages(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero uses default", limit: 0, want: DefaultMaxHistoryMessages},
		{name: "negative uses default", limit: -5, want: DefaultMaxHistoryMessages},
		{name: "in range unchanged", limit: 20, want: 20},
		{name: "above max clamped", limit: 100000, want: DefaultMaxHistoryMessages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMaxHistoryMessages(tt.limit); got != tt.want {
				t.Errorf("NormalizeMaxHistoryMessages(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

// BenchmarkValidate benchmarks configuration validation.
func BenchmarkValidate(b *testing.B) {
	if err := os.Setenv("GEMINI_API_KEY", "test-key"); err != nil {
		b.Fatalf("setting GEMINI_API_KEY: %v", err)
	}
	defer os.Unsetenv("GEMINI_API_KEY")

	cfg := validBaseConfig()

	if err := cfg.Validate(); err != nil {
		b.Fatalf("Validate() unexpected error: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		_ = cfg.Validate()
	}
}
