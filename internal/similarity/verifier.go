package similarity

import (
	"context"
	"image"
	"log/slog"

	"reclaim/internal/media/ffprobe"
)

type kind int

const (
	kindUnsupported kind = iota
	kindVideo
	kindImage
)

// Options configures a Verifier.
type Options struct {
	FFmpegBinary      string
	FFprobeBinary     string
	MSEImageThreshold float64
	MSEVideoThreshold float64
}

// Verifier compares media files by decoding frames and measuring MSE.
type Verifier struct {
	log            *slog.Logger
	ffmpegBinary   string
	ffprobeBinary  string
	imageThreshold float64
	videoThreshold float64
}

// New constructs a Verifier. A nil logger falls back to slog.Default.
func New(logger *slog.Logger, opts Options) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		log:            logger,
		ffmpegBinary:   opts.FFmpegBinary,
		ffprobeBinary:  opts.FFprobeBinary,
		imageThreshold: opts.MSEImageThreshold,
		videoThreshold: opts.MSEVideoThreshold,
	}
}

// FramesMatch compares the first path against each subsequent path, short-
// circuiting to false on the first mismatch. A list of one path is trivially
// true with no decoding performed. The verdict is false whenever any path
// fails to classify or decode; this function never returns an error.
func (v *Verifier) FramesMatch(ctx context.Context, paths []string) bool {
	if len(paths) <= 1 {
		return true
	}

	frames := make([]image.Image, len(paths))
	kinds := make([]kind, len(paths))
	for i, path := range paths {
		frames[i], kinds[i] = v.classify(ctx, path)
	}

	threshold, ok := v.thresholdFor(kinds)
	if !ok {
		v.log.Warn("unsupported input type", slog.Any("paths", paths))
		return false
	}

	reference := frames[0]
	for i, frame := range frames[1:] {
		if frame.Bounds() != reference.Bounds() {
			frame = resizeTo(frame, reference.Bounds())
		}
		mse := meanSquaredError(reference, frame)
		if mse > threshold {
			v.log.Debug("frames differ",
				slog.String("reference", paths[0]),
				slog.String("candidate", paths[i+1]),
				slog.Float64("mse", mse),
				slog.Float64("threshold", threshold))
			return false
		}
	}
	return true
}

// thresholdFor picks the comparison threshold when the classification is
// uniform: all video or all image. Mixed or unsupported input has no
// threshold and the comparison fails.
func (v *Verifier) thresholdFor(kinds []kind) (float64, bool) {
	allVideo, allImage := true, true
	for _, k := range kinds {
		if k != kindVideo {
			allVideo = false
		}
		if k != kindImage {
			allImage = false
		}
	}
	switch {
	case allVideo:
		return v.videoThreshold, true
	case allImage:
		return v.imageThreshold, true
	default:
		return 0, false
	}
}

// classify decides how a path can be compared. A path is a video when ffprobe
// reports a video stream and ffmpeg can extract its first frame; failing
// that, a still image when the stdlib can decode it. Anything else is
// unsupported. Still images inside containers ffprobe understands (PNG,
// JPEG) classify as video, matching how a video capture API opens them.
func (v *Verifier) classify(ctx context.Context, path string) (image.Image, kind) {
	if result, err := ffprobe.Inspect(ctx, v.ffprobeBinary, path); err == nil && result.HasVideoStream() {
		frame, err := extractFirstFrame(ctx, v.ffmpegBinary, path)
		if err == nil {
			return frame, kindVideo
		}
		v.log.Debug("first frame extraction failed", slog.String("path", path), slog.Any("error", err))
	}

	if img, err := decodeImage(path); err == nil {
		return img, kindImage
	}

	return nil, kindUnsupported
}
