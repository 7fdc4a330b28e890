package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Zifeldev/langback/internal/metrics"
	"github.com/Zifeldev/langback/internal/middleware"
	"github.com/Zifeldev/langback/internal/service"
)

const (
	defaultBatchWorkers = 5
	maxBatchWorkers     = 100
	maxBatchItems       = 1000
	defaultItemTimeout  = 500 * time.Millisecond
)

type DetectController struct {
	svc service.LanguageService
	log *logrus.Entry
}

func NewDetectController(svc service.LanguageService, log *logrus.Entry) *DetectController {
	return &DetectController{svc: svc, log: log}
}

func (dc *DetectController) reqLogger(c *gin.Context) *logrus.Entry {
	return dc.log.WithFields(logrus.Fields{
		"handler":   "DetectController",
		"trace_id":  middleware.TraceID(c.Request.Context()),
		"remote_ip": c.ClientIP(),
		"path":      c.Request.URL.Path,
		"client_id": c.GetHeader("X-Client-ID"),
	})
}

// DetectRequest
type DetectRequest struct {
	Text string `json:"text" example:"This is an English text."`
	// MinimumRatio overrides the configured share of the top score a
	// language must reach. Zero keeps the configured value.
	MinimumRatio float64 `json:"minimum_ratio,omitempty" example:"0.8"`
}

// DetectResponse
type DetectResponse struct {
	Languages []string `json:"languages" example:"en"`
	Top       string   `json:"top,omitempty" example:"en"`
	Cached    bool     `json:"cached"`
	Truncated bool     `json:"truncated,omitempty"`
}

// ScoresResponse
type ScoresResponse struct {
	DetectResponse
	Scores map[string]float64 `json:"scores"`
}

// LanguagesResponse
type LanguagesResponse struct {
	Count     int      `json:"count" example:"2"`
	Languages []string `json:"languages" example:"de,en"`
}

// BatchItemResult
type BatchItemResult struct {
	Index      int      `json:"index"`
	Status     string   `json:"status"` // ok|error
	Languages  []string `json:"languages,omitempty"`
	Top        string   `json:"top,omitempty"`
	Error      string   `json:"error,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}

// BatchResponse
type BatchResponse struct {
	Processed int               `json:"processed"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []BatchItemResult `json:"results"`
}

// Detect
// @Summary      Detect the language of a text
// @Description  Returns the detected languages, most confident first. An empty list means no language could be determined.
// @Tags         detect
// @Accept       json
// @Produce      json
// @Param        body  body      DetectRequest  true  "Text to analyse"
// @Success      200   {object}  DetectResponse
// @Failure      400   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Failure      504   {object}  map[string]string
// @Router       /detect [post]
func (dc *DetectController) Detect(c *gin.Context) {
	res, ok := dc.detect(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(res))
}

// Scores
// @Summary      Detect with per-language scores
// @Description  Same as /detect and also returns the score of every active language after variant merging.
// @Tags         detect
// @Accept       json
// @Produce      json
// @Param        body  body      DetectRequest  true  "Text to analyse"
// @Success      200   {object}  ScoresResponse
// @Failure      400   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Router       /detect/scores [post]
func (dc *DetectController) Scores(c *gin.Context) {
	res, ok := dc.detect(c)
	if !ok {
		return
	}
	scores := res.Scores
	if scores == nil {
		scores = map[string]float64{}
	}
	c.JSON(http.StatusOK, ScoresResponse{DetectResponse: toResponse(res), Scores: scores})
}

func (dc *DetectController) detect(c *gin.Context) (*service.Result, bool) {
	log := dc.reqLogger(c)

	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.WithError(err).Warn("bad detect body")
		writeBindError(c, err)
		return nil, false
	}
	res, err := dc.svc.DetectWithRatio(c.Request.Context(), req.Text, req.MinimumRatio)
	if err != nil {
		log.WithError(err).Warn("detection failed")
		writeServiceError(c, err)
		return nil, false
	}
	c.Set(middleware.GinKeyLanguages, res.Languages)
	return res, true
}

// DetectEmail
// @Summary      Detect the language of an e-mail
// @Description  Accepts a raw RFC 822 message, drops quoted replies and signatures and detects the language of the body.
// @Tags         detect
// @Accept       plain
// @Accept       message/rfc822
// @Produce      json
// @Success      200  {object}  service.EmailResult
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /detect/email [post]
func (dc *DetectController) DetectEmail(c *gin.Context) {
	log := dc.reqLogger(c).WithField("handler", "DetectEmail")

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.WithError(err).Warn("bad request body")
		writeBindError(c, err)
		return
	}
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty message"})
		return
	}

	out, err := dc.svc.DetectEmail(c.Request.Context(), raw)
	if err != nil {
		log.WithError(err).Warn("email detection failed")
		writeServiceError(c, err)
		return
	}
	c.Set(middleware.GinKeyLanguages, out.Result.Languages)
	c.JSON(http.StatusOK, out)
}

// Batch
// @Summary      Detect languages for many texts
// @Description  Runs detection on a bounded worker pool. Results keep the input order.
// @Tags         detect
// @Accept       json
// @Produce      json
// @Param        max_workers   query   int     false  "Parallel workers (1..100)" minimum(1) maximum(100) default(5)
// @Param        item_timeout  query   string  false  "Deadline per item (e.g. 500ms, 2s)" default(500ms)
// @Param        body          body    []DetectRequest  true  "Texts to analyse"
// @Success      200  {object}  BatchResponse
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Router       /detect/batch [post]
func (dc *DetectController) Batch(c *gin.Context) {
	log := dc.reqLogger(c).WithField("handler", "Batch")
	start := time.Now()

	var inputs []DetectRequest
	if err := c.ShouldBindJSON(&inputs); err != nil {
		log.WithError(err).Warn("bad batch body")
		writeBindError(c, err)
		return
	}
	if len(inputs) == 0 {
		log.Warn("empty input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty input"})
		return
	}
	if len(inputs) > maxBatchItems {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many items, max " + strconv.Itoa(maxBatchItems)})
		return
	}
	metrics.BatchSize.Observe(float64(len(inputs)))

	maxWorkers := defaultBatchWorkers
	if s := c.Query("max_workers"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 && v <= maxBatchWorkers {
			maxWorkers = v
		}
	}
	itemTimeout := defaultItemTimeout
	if s := c.Query("item_timeout"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			itemTimeout = d
		}
	}

	log = log.WithFields(logrus.Fields{
		"items":        len(inputs),
		"max_workers":  maxWorkers,
		"item_timeout": itemTimeout.String(),
	})
	log.Info("batch started")

	type job struct {
		i   int
		req DetectRequest
	}
	jobs := make(chan job, len(inputs))
	results := make(chan BatchItemResult, len(inputs))
	ctx := c.Request.Context()

	worker := func() {
		for j := range jobs {
			itemStart := time.Now()
			ictx, cancel := context.WithTimeout(ctx, itemTimeout)
			res, err := dc.svc.DetectWithRatio(ictx, j.req.Text, j.req.MinimumRatio)
			cancel()

			dur := time.Since(itemStart).Milliseconds()
			if err != nil {
				log.WithFields(logrus.Fields{"idx": j.i, "dur": dur, "err": err.Error()}).Warn("item detection failed")
				results <- BatchItemResult{Index: j.i, Status: "error", Error: err.Error(), DurationMS: dur}
				continue
			}
			results <- BatchItemResult{Index: j.i, Status: "ok", Languages: res.Languages, Top: res.Top, DurationMS: dur}
		}
	}

	wc := min(maxWorkers, len(inputs))
	var wg sync.WaitGroup
	wg.Add(wc)
	for i := 0; i < wc; i++ {
		go func() {
			defer wg.Done()
			worker()
		}()
	}
	for i, in := range inputs {
		jobs <- job{i: i, req: in}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]BatchItemResult, len(inputs))
	ok, fail := 0, 0
	for r := range results {
		out[r.Index] = r
		if r.Status == "ok" {
			ok++
		} else {
			fail++
		}
	}

	log.WithFields(logrus.Fields{
		"succeeded": ok,
		"failed":    fail,
		"dur_ms":    time.Since(start).Milliseconds(),
	}).Info("batch finished")

	c.JSON(http.StatusOK, BatchResponse{
		Processed: len(inputs),
		Succeeded: ok,
		Failed:    fail,
		Results:   out,
	})
}

// Languages
// @Summary      List supported languages
// @Description  Codes the detector can return, with script variants merged into their canonical code.
// @Tags         detect
// @Produce      json
// @Success      200  {object}  LanguagesResponse
// @Router       /languages [get]
func (dc *DetectController) Languages(c *gin.Context) {
	langs := dc.svc.SupportedLanguages()
	c.JSON(http.StatusOK, LanguagesResponse{Count: len(langs), Languages: langs})
}

func toResponse(res *service.Result) DetectResponse {
	return DetectResponse{
		Languages: res.Languages,
		Top:       res.Top,
		Cached:    res.Cached,
		Truncated: res.Truncated,
	}
}

func writeBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRatio):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyEmail):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timeout"})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not process input"})
	}
}
