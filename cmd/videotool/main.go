// Command videotool exercises the video engine from the shell: probing
// containers, extracting thumbnails, converting subtitles, and transcoding
// audio.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	"github.com/sirupsen/logrus"

	"github.com/home-lang/video"
)

// config holds process-level settings read from the environment.
type config struct {
	LogLevel  string `env:"VIDEOTOOL_LOG_LEVEL, default=info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"VIDEOTOOL_LOG_FORMAT, default=text" validate:"oneof=text json"`
}

var validate = validator.New()

func main() {
	cfg := &config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		logrus.WithError(err).Fatal("config")
	}
	if err := validate.Struct(cfg); err != nil {
		logrus.WithError(err).Fatal("config validation")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("log level")
	}
	logrus.SetLevel(level)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "probe":
		err = runProbe(os.Args[2:])
	case "thumb":
		err = runThumb(os.Args[2:])
	case "sub":
		err = runSub(os.Args[2:])
	case "audio":
		err = runAudio(os.Args[2:])
	case "version":
		fmt.Println(video.Version())
		return
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		code := video.CodeOf(err)
		logrus.WithError(err).WithField("code", code.String()).Error("command failed")
		os.Exit(int(-code))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: videotool <command> [flags]

commands:
  probe <file>        print container format and stream table
  thumb <file>        extract thumbnails (-at, -width, -height, -out)
  sub <file.srt>      convert SubRip to WebVTT (-out)
  audio <file>        transcode audio (-format wav|flac, -out)
  version             print the library version
`)
}

func runProbe(args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: probe needs exactly one file", video.ErrInvalidArgument)
	}
	path := fs.Arg(0)

	m, err := video.OpenMedia(path)
	if err != nil {
		return err
	}
	defer m.Close()

	fmt.Printf("%s: %s, %d stream(s)\n", path, m.Container(), m.StreamCount())
	for _, s := range m.Streams() {
		fmt.Printf("  #%d %s (%s)\n", s.Index, s.Type, s.Codec)
	}

	// Audio-only containers also get decoded metadata.
	if m.Container() == video.ContainerWAV || m.Container() == video.ContainerOgg {
		buf, err := video.LoadAudio(path)
		if err != nil {
			logrus.WithError(err).Debug("audio probe")
			return nil
		}
		fmt.Printf("  audio: %d Hz, %d ch, %s, %v\n",
			buf.SampleRate, buf.Channels, buf.Format, buf.Duration().Round(time.Millisecond))
		if buf.Tags != nil {
			fmt.Printf("  tags: %q by %q on %q\n", buf.Tags.Title, buf.Tags.Artist, buf.Tags.Album)
		}
	}
	return nil
}

// thumbOptions are the validated thumb flags.
type thumbOptions struct {
	Width  int    `validate:"gt=0"`
	Height int    `validate:"gt=0"`
	Out    string `validate:"required"`
}

func runThumb(args []string) error {
	fs := flag.NewFlagSet("thumb", flag.ExitOnError)
	at := fs.String("at", "0s", "comma-separated timestamps, e.g. 0s,1m30s")
	width := fs.Int("width", 320, "thumbnail width")
	height := fs.Int("height", 180, "thumbnail height")
	out := fs.String("out", "thumb-%d.png", "output path pattern (.png, .jpg, .webp)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: thumb needs exactly one file", video.ErrInvalidArgument)
	}

	opts := thumbOptions{Width: *width, Height: *height, Out: *out}
	if err := validate.Struct(opts); err != nil {
		return fmt.Errorf("%w: %v", video.ErrInvalidArgument, err)
	}

	var stamps []time.Duration
	for _, part := range strings.Split(*at, ",") {
		d, err := time.ParseDuration(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("%w: timestamp %q: %v", video.ErrInvalidArgument, part, err)
		}
		stamps = append(stamps, d)
	}

	frames, err := video.ExtractThumbnails(context.Background(), fs.Arg(0), stamps, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	for i, frame := range frames {
		path := opts.Out
		if strings.Contains(path, "%d") {
			path = fmt.Sprintf(path, i)
		}
		if err := video.SaveFrame(frame, path); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"path": path, "timestamp": stamps[i]}).Info("thumbnail written")
	}
	return nil
}

func runSub(args []string) error {
	fs := flag.NewFlagSet("sub", flag.ExitOnError)
	out := fs.String("out", "", "output .vtt path (default: input with .vtt extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: sub needs exactly one file", video.ErrInvalidArgument)
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", video.ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: read %s: %v", video.ErrIO, path, err)
	}

	cues, skipped, err := video.ParseSRT(data)
	if err != nil {
		return err
	}
	if skipped > 0 {
		logrus.WithField("skipped", skipped).Warn("malformed cue blocks ignored")
	}

	target := *out
	if target == "" {
		target = strings.TrimSuffix(path, ".srt") + ".vtt"
	}
	if err := os.WriteFile(target, video.FormatVTT(cues), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", video.ErrIO, target, err)
	}
	logrus.WithFields(logrus.Fields{"path": target, "cues": len(cues)}).Info("subtitles converted")
	return nil
}

func runAudio(args []string) error {
	fs := flag.NewFlagSet("audio", flag.ExitOnError)
	format := fs.String("format", "wav", "target format: wav or flac")
	out := fs.String("out", "", "output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: audio needs exactly one file", video.ErrInvalidArgument)
	}
	path := fs.Arg(0)

	var target video.AudioFormat
	switch *format {
	case "wav":
		target = video.AudioFormatWAV
	case "flac":
		target = video.AudioFormatFLAC
	default:
		return fmt.Errorf("%w: target format %q", video.ErrInvalidArgument, *format)
	}

	buf, err := video.LoadAudio(path)
	if err != nil {
		return err
	}

	encoded, err := video.Encode(buf, target)
	if err != nil {
		return err
	}

	dest := *out
	if dest == "" {
		dest = strings.TrimSuffix(path, ".wav")
		dest = strings.TrimSuffix(dest, ".opus")
		dest = strings.TrimSuffix(dest, ".ogg") + "." + *format
	}
	if err := os.WriteFile(dest, encoded, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", video.ErrIO, dest, err)
	}
	logrus.WithFields(logrus.Fields{
		"path":     dest,
		"format":   *format,
		"duration": buf.Duration().Round(time.Millisecond),
		"bytes":    len(encoded),
	}).Info("audio transcoded")
	return nil
}
