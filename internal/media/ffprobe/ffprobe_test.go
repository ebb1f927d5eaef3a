package ffprobe

import (
	"context"
	"encoding/json"
	"testing"
)

const sampleOutput = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
    {"index": 1, "codec_name": "aac", "codec_type": "audio"}
  ],
  "format": {"filename": "clip.mp4", "nb_streams": 2, "duration": "12.480000", "format_name": "mov,mp4,m4a"}
}`

func TestResultHelpers(t *testing.T) {
	var result Result
	if err := json.Unmarshal([]byte(sampleOutput), &result); err != nil {
		t.Fatal(err)
	}

	if !result.HasVideoStream() {
		t.Fatal("expected video stream")
	}
	stream, ok := result.FirstVideoStream()
	if !ok || stream.Width != 1920 || stream.Height != 1080 {
		t.Fatalf("unexpected first video stream: %+v ok=%v", stream, ok)
	}
	if got := result.DurationSeconds(); got != 12.48 {
		t.Fatalf("unexpected duration: %v", got)
	}
}

func TestDurationSecondsUnparseable(t *testing.T) {
	result := Result{Format: Format{Duration: "N/A"}}
	if got := result.DurationSeconds(); got != 0 {
		t.Fatalf("expected 0 for unparseable duration, got %v", got)
	}
}

func TestInspectEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
