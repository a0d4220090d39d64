package constants

import "time"

// ProfileID is the fixed key of the singleton profile record.
const ProfileID = "00000000-0000-0000-0000-000000000001"

var AIConfig = struct {
	DefaultGeminiModel string
	DefaultOpenAIModel string
	Temperature        float32
	MaxOutputTokens    int
	RequestTimeout     time.Duration
	MaxQueryLength     int
}{
	DefaultGeminiModel: "gemini-2.5-flash",
	DefaultOpenAIModel: "gpt-4o-mini",
	Temperature:        0.7,
	MaxOutputTokens:    1024,
	RequestTimeout:     30 * time.Second,
	MaxQueryLength:     500,
}

var CacheTTL = struct {
	Snapshot   time.Duration
	Transcript time.Duration
}{
	Snapshot:   24 * time.Hour,
	Transcript: 2 * time.Hour,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     30 * time.Second,
}

var ServerConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxImageBytes   int64
}{
	ReadTimeout:     15 * time.Second,
	WriteTimeout:    60 * time.Second,
	ShutdownTimeout: 10 * time.Second,
	MaxImageBytes:   4 << 20,
}
