// Package video is a native media-processing engine: it loads and saves
// audio, transforms raw video frames through a pure filter pipeline,
// demultiplexes container files into streams, converts timed subtitle
// formats, and extracts thumbnails.
//
// Key pieces include:
//   - Frame and PixelFormat: planar/packed pixel buffers with per-plane stride
//   - Filters: Scale, Crop, Grayscale, Blur, Rotate (pure, non-mutating)
//   - AudioBuffer with LoadAudio/SaveAudio/Encode (WAV and FLAC lossless)
//   - MediaFile: container demuxing for MP4, MPEG-TS, WAV, and Ogg
//   - ParseSRT/SRTToVTT subtitle cue conversion
//   - ExtractThumbnail: seek, decode, and scale a single frame
//
// # Architecture
//
//	file/bytes -> MediaFile (streams) -> decode -> Frame / AudioBuffer
//	Frame -> Scale/Crop/Grayscale/Blur/Rotate -> Frame
//	AudioBuffer -> Encode -> bytes
//
// # Concurrency
//
// Handles (Frame, AudioBuffer, MediaFile) are confined to one goroutine at
// a time; the package adds no internal locking around a single handle.
// Read-only accessors on an otherwise-idle handle are safe to call from
// multiple goroutines. Every operation is synchronous and runs to
// completion or failure on the calling goroutine.
//
// # Supported Codecs
//
// This build is pure Go. Video decode: Motion JPEG. Audio decode: PCM (WAV)
// and Opus (Ogg). Audio encode: WAV and FLAC (lossless). Other codecs are
// recognized during demuxing but report ErrUnsupportedCodec when decoding
// or encoding is requested.
package video
