// Package pipeline orchestrates one generation request end to end:
// parse the specification, retrieve knowledge, build the prompt, call the
// generation backend, parse and validate the response, persist the
// artifact. Backend failures never fail a request; a fixed fallback
// artifact is substituted instead. Persistence failures do fail the
// request, since without the artifact there is nothing to return.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/artifact"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/genparse"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/knowledge"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/llm"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/prompt"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/rtlcheck"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/specparse"
)

// Optimization targets accepted on a request.
const (
	TargetPower       = "power"
	TargetPerformance = "performance"
	TargetArea        = "area"
	TargetBalanced    = "balanced"
)

// Request is one RTL generation request.
type Request struct {
	SpecText           string            `json:"spec_text"`
	Requirements       map[string]string `json:"requirements,omitempty"`
	OptimizationTarget string            `json:"optimization_target,omitempty"`
	Language           string            `json:"language,omitempty"`
	ProjectID          string            `json:"project_id,omitempty"`
}

// RTLResult is the structured outcome of one generation request.
type RTLResult struct {
	ModuleName         string                  `json:"module_name"`
	Code               string                  `json:"code"`
	Explanation        string                  `json:"explanation"`
	Validation         rtlcheck.Report         `json:"validation"`
	Metrics            rtlcheck.Metrics        `json:"metrics"`
	PPAMetrics         rtlcheck.PPAEstimate    `json:"ppa_metrics"`
	SpecAnalysis       specparse.Specification `json:"spec_analysis"`
	Language           string                  `json:"language"`
	OptimizationTarget string                  `json:"optimization_target"`
	GenerationTime     float64                 `json:"generation_time"`
	ArtifactPath       string                  `json:"artifact_path,omitempty"`
	FallbackUsed       bool                    `json:"fallback_used"`
}

// TestbenchRequest asks for a verification testbench for existing RTL.
type TestbenchRequest struct {
	RTLCode       string   `json:"rtl_code"`
	ModuleName    string   `json:"module_name"`
	TestScenarios []string `json:"test_scenarios,omitempty"`
	ProjectID     string   `json:"project_id,omitempty"`
}

// TestbenchResult is the outcome of a testbench request.
type TestbenchResult struct {
	ModuleName     string   `json:"module_name"`
	TestbenchCode  string   `json:"testbench_code"`
	TestScenarios  []string `json:"test_scenarios"`
	GenerationTime float64  `json:"generation_time"`
	ArtifactPath   string   `json:"artifact_path,omitempty"`
	FallbackUsed   bool     `json:"fallback_used"`
}

var defaultTestScenarios = []string{"basic functionality", "reset sequence", "error conditions"}

// BatchRequest bundles several generation requests.
type BatchRequest struct {
	Specifications []Request `json:"specifications"`
	Parallel       bool      `json:"parallel,omitempty"`
}

// BatchResult reports per-item outcomes plus batch statistics. A failed
// item leaves a nil slot in Results; siblings are unaffected.
type BatchResult struct {
	BatchID        string       `json:"batch_id"`
	Results        []*RTLResult `json:"results"`
	TotalProcessed int          `json:"total_processed"`
	Successful     int          `json:"successful"`
	Failed         int          `json:"failed"`
	ProcessingTime float64      `json:"processing_time"`
}

// Pipeline wires the generation stages together. All collaborators are
// injected; the pipeline itself holds no request state.
type Pipeline struct {
	Retriever *knowledge.Retriever
	LLM       llm.Client
	Artifacts *artifact.Store
	Stats     *Stats
	Events    *EventHub
	Logger    *log.Logger
	TopK      int
}

// New builds a pipeline with the given collaborators.
func New(retriever *knowledge.Retriever, client llm.Client, store *artifact.Store, stats *Stats, events *EventHub, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	if stats == nil {
		stats = NewStats()
	}
	return &Pipeline{
		Retriever: retriever,
		LLM:       client,
		Artifacts: store,
		Stats:     stats,
		Events:    events,
		Logger:    logger,
		TopK:      knowledge.DefaultTopK,
	}
}

func (p *Pipeline) emit(id, stage string, fallback bool) {
	p.Events.Publish(Event{RequestID: id, Stage: stage, Fallback: fallback, At: time.Now()})
}

// GenerateRTL runs the full stage sequence for one request. Specification
// parsing and knowledge retrieval run concurrently; every other stage is
// sequential. The only error it returns is a persistence failure.
func (p *Pipeline) GenerateRTL(ctx context.Context, req Request) (*RTLResult, error) {
	start := time.Now()
	id := uuid.NewString()
	p.Stats.IncRequests()
	p.emit(id, StageReceived, false)

	// Retrieval is I/O-bound and independent of parsing.
	snippetCh := make(chan []knowledge.Snippet, 1)
	go func() {
		snippetCh <- p.Retriever.Retrieve(ctx, req.SpecText, p.TopK)
	}()

	spec := specparse.Parse(req.SpecText)
	p.emit(id, StageParsed, false)

	snippets := <-snippetCh
	p.emit(id, StageRetrieved, false)

	promptText := prompt.BuildRTL(req.SpecText, knowledge.Texts(snippets))
	p.emit(id, StagePrompted, false)

	res, fallback := p.generate(ctx, id, promptText)
	p.emit(id, StageParsedResponse, fallback)

	validation := rtlcheck.Validate(res.Code)
	metrics := rtlcheck.CountMetrics(res.Code)
	ppa := rtlcheck.EstimatePPA(res.Code)
	p.emit(id, StageValidated, fallback)

	result := &RTLResult{
		ModuleName:         res.ModuleName,
		Code:               res.Code,
		Explanation:        res.Explanation,
		Validation:         validation,
		Metrics:            metrics,
		PPAMetrics:         ppa,
		SpecAnalysis:       spec,
		Language:           req.Language,
		OptimizationTarget: req.OptimizationTarget,
		FallbackUsed:       fallback,
	}

	if res.Code != "" {
		ref, err := p.Artifacts.SaveRTL(ctx, res.Code, res.ModuleName, req.ProjectID, map[string]any{
			"request_id":          id,
			"specification":       truncate(req.SpecText, 500),
			"requirements":        req.Requirements,
			"optimization_target": req.OptimizationTarget,
			"language":            req.Language,
			"backend":             p.LLM.Name(),
			"fallback_used":       fallback,
			"validation_score":    validation.Score,
			"complexity_level":    spec.Complexity.Level,
		})
		if err != nil {
			p.Stats.IncErrors()
			return nil, fmt.Errorf("pipeline: persist rtl: %w", err)
		}
		result.ArtifactPath = ref.Path
	}
	p.emit(id, StagePersisted, fallback)

	result.GenerationTime = time.Since(start).Seconds()
	p.Stats.IncRTL()
	p.emit(id, StageReturned, fallback)
	return result, nil
}

// generate calls the backend and parses its output. Any backend failure,
// unavailable or mid-call, substitutes the fixed fallback result. There is
// no retry: the upstream call's cost is unknown, skipping is safe.
func (p *Pipeline) generate(ctx context.Context, id, promptText string) (genparse.Result, bool) {
	raw, err := p.LLM.GenerateText(ctx, promptText)
	if err != nil {
		var genErr *llm.GenerationError
		switch {
		case errors.Is(err, llm.ErrUnavailable):
			p.Logger.Printf("pipeline: backend unavailable, using fallback (request %s)", id)
		case errors.As(err, &genErr):
			p.Logger.Printf("pipeline: generation failed, using fallback (request %s): %v", id, err)
		default:
			p.Logger.Printf("pipeline: backend error, using fallback (request %s): %v", id, err)
		}
		p.emit(id, StageGenerated, true)
		return fallbackRTL(), true
	}
	p.emit(id, StageGenerated, false)
	return genparse.Parse(raw), false
}

// GenerateTestbench follows the same shape seeded by existing RTL code
// instead of a specification.
func (p *Pipeline) GenerateTestbench(ctx context.Context, req TestbenchRequest) (*TestbenchResult, error) {
	start := time.Now()
	id := uuid.NewString()
	p.Stats.IncRequests()
	p.emit(id, StageReceived, false)

	promptText := prompt.BuildTestbench(req.ModuleName, req.RTLCode)
	p.emit(id, StagePrompted, false)

	var code string
	fallback := false
	raw, err := p.LLM.GenerateText(ctx, promptText)
	if err != nil {
		p.Logger.Printf("pipeline: testbench backend error, using fallback (request %s): %v", id, err)
		code = fallbackTestbench(req.ModuleName)
		fallback = true
	} else {
		code = genparse.Parse(raw).Code
	}
	p.emit(id, StageGenerated, fallback)

	scenarios := req.TestScenarios
	if len(scenarios) == 0 {
		scenarios = defaultTestScenarios
	}
	result := &TestbenchResult{
		ModuleName:    "tb_" + req.ModuleName,
		TestbenchCode: code,
		TestScenarios: scenarios,
		FallbackUsed:  fallback,
	}

	if code != "" {
		ref, err := p.Artifacts.SaveTestbench(ctx, code, req.ModuleName, req.ProjectID)
		if err != nil {
			p.Stats.IncErrors()
			return nil, fmt.Errorf("pipeline: persist testbench: %w", err)
		}
		result.ArtifactPath = ref.Path
	}
	p.emit(id, StagePersisted, fallback)

	result.GenerationTime = time.Since(start).Seconds()
	p.Stats.IncTestbenches()
	p.emit(id, StageReturned, fallback)
	return result, nil
}

// GenerateBatch processes several specifications, sequentially or in
// parallel per the request flag. One item's failure is counted and logged,
// never aborts its siblings.
func (p *Pipeline) GenerateBatch(ctx context.Context, req BatchRequest) *BatchResult {
	start := time.Now()
	batch := &BatchResult{
		BatchID:        uuid.NewString(),
		Results:        make([]*RTLResult, len(req.Specifications)),
		TotalProcessed: len(req.Specifications),
	}

	runOne := func(i int, spec Request) {
		res, err := p.GenerateRTL(ctx, spec)
		if err != nil {
			p.Logger.Printf("pipeline: batch %s item %d failed: %v", batch.BatchID, i, err)
			return
		}
		batch.Results[i] = res
	}

	if req.Parallel {
		var wg sync.WaitGroup
		for i, spec := range req.Specifications {
			wg.Add(1)
			go func(i int, spec Request) {
				defer wg.Done()
				runOne(i, spec)
			}(i, spec)
		}
		wg.Wait()
	} else {
		for i, spec := range req.Specifications {
			runOne(i, spec)
		}
	}

	for _, res := range batch.Results {
		if res != nil {
			batch.Successful++
		} else {
			batch.Failed++
		}
	}
	batch.ProcessingTime = time.Since(start).Seconds()
	return batch
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
