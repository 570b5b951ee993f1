// Package protocol decodes incoming handler URIs into structured playback requests.
//
// A handler URI has the shape:
//
//	mpv://play/<base64url-target>/?param=value&...
//
// where the authority segment selects the plugin and the payload carries the
// destination URL in URL-safe base64. The mpv-debug scheme is equivalent but
// keeps console diagnostics visible.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gabreek/mpv-handler-queue/constant"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Decode failure kinds. Each is terminal: a request that does not decode is
// never acted upon.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnsupportedPlugin = errors.New("unsupported plugin")
	ErrInvalidEncoding   = errors.New("invalid encoding")
)

// Plugin selects the handler behavior requested by the URI authority segment.
type Plugin string

// Play is the only plugin currently supported.
const Play Plugin = "play"

// Enqueue is the tri-state queueing mode carried by the enqueue parameter.
type Enqueue int

const (
	// EnqueueAuto appends to a running session when one is reachable and
	// launches a fresh player otherwise.
	EnqueueAuto Enqueue = iota
	// EnqueueOn requires a reachable session; the invocation fails without one.
	EnqueueOn
	// EnqueueOff always launches a fresh player.
	EnqueueOff
)

// Supported quality labels for the quality parameter.
var qualities = []string{"2160p", "1440p", "1080p", "720p", "480p", "360p"}

// Supported codec labels for the v_codec parameter.
var codecs = []string{"av01", "vp9", "hevc", "h264"}

// Request is the immutable, fully decoded form of one handler invocation.
type Request struct {
	Scheme  string
	Plugin  Plugin
	URL     string
	Title   mo.Option[string]
	Cookies string
	Profile string
	Quality string
	VCodec  string
	Subfile mo.Option[string]
	StartAt mo.Option[float64]
	Enqueue Enqueue
}

// Debug reports whether the request arrived on the diagnostic scheme.
func (r *Request) Debug() bool {
	return r.Scheme == constant.SchemeDebug
}

// Parse decodes a raw handler URI into a Request.
func Parse(raw string) (*Request, error) {
	scheme, rest, ok := splitScheme(raw)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized scheme in %q", ErrInvalidRequest, raw)
	}

	req := &Request{Scheme: scheme}

	plugin, rest, _ := strings.Cut(rest, "/")
	switch Plugin(plugin) {
	case Play:
		req.Plugin = Play
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlugin, plugin)
	}

	payload, query, _ := strings.Cut(rest, "/?")
	payload = strings.TrimSuffix(payload, "/")
	if payload == "" {
		return nil, fmt.Errorf("%w: missing payload", ErrInvalidRequest)
	}

	target, err := DecodeBase64URL(payload)
	if err != nil {
		return nil, err
	}
	req.URL = target

	if err := req.applyParams(query); err != nil {
		return nil, err
	}

	return req, nil
}

// applyParams type-checks the recognized key=value parameters.
// Unknown keys are ignored for forward compatibility.
func (r *Request) applyParams(query string) error {
	if query == "" {
		return nil
	}

	for _, pair := range strings.Split(query, "&") {
		k, v, found := strings.Cut(pair, "=")
		if !found || v == "" {
			continue
		}

		switch k {
		case "cookies":
			r.Cookies = v
		case "profile":
			r.Profile = v
		case "quality":
			if !lo.Contains(qualities, v) {
				return fmt.Errorf("%w: unknown quality %q", ErrInvalidRequest, v)
			}
			r.Quality = v
		case "v_codec":
			if !lo.Contains(codecs, v) {
				return fmt.Errorf("%w: unknown codec %q", ErrInvalidRequest, v)
			}
			r.VCodec = v
		case "v_title":
			title, err := DecodeBase64URL(v)
			if err != nil {
				return err
			}
			r.Title = mo.Some(title)
		case "subfile":
			sub, err := DecodeBase64URL(v)
			if err != nil {
				return err
			}
			r.Subfile = mo.Some(sub)
		case "startat":
			seconds, err := strconv.ParseFloat(v, 64)
			if err != nil || seconds < 0 {
				return fmt.Errorf("%w: startat must be a non-negative number, got %q", ErrInvalidRequest, v)
			}
			r.StartAt = mo.Some(seconds)
		case "enqueue":
			switch v {
			case "true":
				r.Enqueue = EnqueueOn
			case "false":
				r.Enqueue = EnqueueOff
			default:
				return fmt.Errorf("%w: enqueue must be true or false, got %q", ErrInvalidRequest, v)
			}
		}
	}

	return nil
}

// splitScheme detaches the URI scheme, accepting only the two registered ones.
func splitScheme(raw string) (scheme, rest string, ok bool) {
	// Debug first: the plain scheme is a prefix of it.
	for _, s := range []string{constant.SchemeDebug, constant.SchemePlain} {
		if strings.HasPrefix(raw, s+"://") {
			return s, strings.TrimPrefix(raw, s+"://"), true
		}
	}
	return "", "", false
}
