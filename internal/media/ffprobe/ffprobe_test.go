package ffprobe

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"kslingo/internal/services"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
		},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.Duration() != 123450*time.Millisecond {
		t.Fatalf("unexpected duration: %s", result.Duration())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.Duration() != 0 {
		t.Fatalf("expected zero duration, got %s", result.Duration())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestDurationFallsBackToStream(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio", Duration: "2.5"}}}
	if result.DurationSeconds() != 2.5 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
}

func fakeOutput(payload string, err error) OutputFunc {
	return func(_ context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "ffprobe-test" {
			return nil, errors.New("unexpected binary " + binary)
		}
		if args[len(args)-1] != "/out/01_Greetings.mp3" || args[len(args)-2] != "--" {
			return nil, errors.New("path not passed after --")
		}
		return []byte(payload), err
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		err     error
		wantErr bool
	}{
		{
			name:    "valid",
			payload: `{"streams":[{"index":0,"codec_type":"audio","codec_name":"mp3"}],"format":{"duration":"14.2"}}`,
		},
		{
			name:    "no audio",
			payload: `{"streams":[],"format":{"duration":"1.0"}}`,
			wantErr: true,
		},
		{
			name:    "two audio streams",
			payload: `{"streams":[{"codec_type":"audio"},{"codec_type":"audio"}],"format":{"duration":"1.0"}}`,
			wantErr: true,
		},
		{
			name:    "zero duration",
			payload: `{"streams":[{"codec_type":"audio"}],"format":{"duration":"0"}}`,
			wantErr: true,
		},
		{
			name:    "garbage",
			payload: `not json`,
			wantErr: true,
		},
		{
			name:    "command failure",
			err:     errors.New("exit status 1"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := NewProber("ffprobe-test", fakeOutput(tt.payload, tt.err))
			_, err := prober.Verify(context.Background(), "/out/01_Greetings.mp3")
			if tt.wantErr {
				if !errors.Is(err, services.ErrExternalTool) {
					t.Fatalf("expected ErrExternalTool, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
		})
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := NewProber("", nil).Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
