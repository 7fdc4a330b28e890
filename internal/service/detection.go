package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/Zifeldev/langback/internal/lang"
	"github.com/Zifeldev/langback/internal/metrics"
	"github.com/Zifeldev/langback/internal/repository"
)

var ErrInvalidRatio = errors.New("minimum ratio must be within [0, 1]")

type Options struct {
	// MaxTextBytes bounds the text handed to the detector; longer input is
	// cut at a character boundary. Zero disables the bound.
	MaxTextBytes int
	// CleanHTML flattens markup before detection.
	CleanHTML bool
	// CacheNamespace separates cache entries of differently configured
	// detectors sharing one Redis.
	CacheNamespace string
}

// Result is a detection outcome as exposed to callers.
type Result struct {
	Languages []string           `json:"languages"`
	Top       string             `json:"top,omitempty"`
	Scores    map[string]float64 `json:"scores,omitempty"`
	Cached    bool               `json:"cached"`
	Truncated bool               `json:"truncated,omitempty"`
}

// DetectionService puts input bounds, caching and metrics around a detector.
type DetectionService struct {
	detector lang.Detector
	cache    repository.ResultCache
	emails   *EmailExtractor
	opts     Options
	log      *logrus.Entry
}

// NewDetectionService wires a detector with an optional cache (nil disables
// caching).
func NewDetectionService(det lang.Detector, cache repository.ResultCache, opts Options, log *logrus.Entry) *DetectionService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &DetectionService{
		detector: det,
		cache:    cache,
		emails:   NewEmailExtractor(),
		opts:     opts,
		log:      log.WithField("component", "detection"),
	}
}

func (s *DetectionService) SupportedLanguages() []string {
	return s.detector.SupportedLanguages()
}

// Detect uses the detector's configured minimum ratio.
func (s *DetectionService) Detect(ctx context.Context, text string) (*Result, error) {
	return s.DetectWithRatio(ctx, text, 0)
}

// DetectWithRatio detects with an explicit minimum ratio; zero means the
// detector default.
func (s *DetectionService) DetectWithRatio(ctx context.Context, text string, ratio float64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		metrics.DetectionsFailed.Inc()
		return nil, err
	}
	if ratio < 0 || ratio > 1 {
		metrics.DetectionsFailed.Inc()
		return nil, ErrInvalidRatio
	}

	text, truncated := truncate(text, s.opts.MaxTextBytes)
	if truncated {
		metrics.InputsTruncated.Inc()
	}
	if s.opts.CleanHTML && lang.LooksLikeHTML(text) {
		text = lang.StripHTML(text)
	}

	key := s.cacheKey(text, ratio)
	if cached, ok := s.lookup(ctx, key); ok {
		res := newResult(cached.Languages, cached.Scores)
		res.Cached = true
		res.Truncated = truncated
		return res, nil
	}

	start := time.Now()
	out := s.detector.Detect(text, ratio)
	metrics.DetectionDuration.Observe(time.Since(start).Seconds())

	res := newResult(out.Languages, out.Scores)
	res.Truncated = truncated
	if res.Top == "" {
		metrics.DetectionsTotal.WithLabelValues("undetermined").Inc()
	} else {
		metrics.DetectionsTotal.WithLabelValues("detected").Inc()
		metrics.DetectedLanguages.WithLabelValues(res.Top).Inc()
	}

	s.store(ctx, key, res)
	s.log.WithFields(logrus.Fields{
		"bytes":     len(text),
		"languages": res.Languages,
		"truncated": truncated,
	}).Debug("text detected")
	return res, nil
}

func newResult(langs []string, scores map[string]float64) *Result {
	if langs == nil {
		langs = []string{}
	}
	res := &Result{Languages: langs, Scores: scores}
	if len(langs) > 0 {
		res.Top = langs[0]
	}
	return res
}

func (s *DetectionService) lookup(ctx context.Context, key string) (*repository.CachedResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		return cached, true
	case errors.Is(err, repository.ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		s.log.WithError(err).Warn("result cache lookup failed")
	}
	return nil, false
}

func (s *DetectionService) store(ctx context.Context, key string, res *Result) {
	if s.cache == nil {
		return
	}
	err := s.cache.Set(ctx, key, &repository.CachedResult{Languages: res.Languages, Scores: res.Scores})
	if err != nil {
		s.log.WithError(err).Warn("result cache store failed")
	}
}

func (s *DetectionService) cacheKey(text string, ratio float64) string {
	h := sha256.New()
	h.Write([]byte(s.opts.CacheNamespace))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(ratio, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// truncate cuts s to at most max bytes without splitting a character.
func truncate(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.Clone(s[:cut]), true
}

// LanguageService is the detection surface used by transports.
type LanguageService interface {
	DetectWithRatio(ctx context.Context, text string, ratio float64) (*Result, error)
	DetectEmail(ctx context.Context, raw []byte) (*EmailResult, error)
	SupportedLanguages() []string
}

var _ LanguageService = (*DetectionService)(nil)
