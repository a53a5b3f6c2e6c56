package eval

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/loopworks/flowkit/log"
)

// DefaultWorkers is the worker pool size when RunSpec.Workers is unset.
const DefaultWorkers = 8

// Pipeline executes the system under evaluation for one datapoint and
// returns its final output.
type Pipeline func(ctx context.Context, dp Datapoint) (string, error)

// RunSpec describes one evaluation run.
type RunSpec struct {
	// Name labels the run.
	Name string
	// Version labels the pipeline version being evaluated.
	Version string
	// Pipeline is the system under evaluation.
	Pipeline Pipeline
	// Dataset holds the records to evaluate.
	Dataset []Datapoint
	// Evaluators score each record's output.
	Evaluators []Evaluator
	// Workers bounds concurrent pipeline executions. 0 means DefaultWorkers.
	Workers int
}

// RecordResult is the outcome for one datapoint.
type RecordResult struct {
	Index  int
	Output string
	// Error marks a failed pipeline execution; such records carry no
	// scores and are excluded from aggregation.
	Error string
	// Scores holds one score per evaluator that ran cleanly.
	Scores map[string]float64
	// ScoreErrors holds per-evaluator failures (including missing targets
	// for target-required evaluators).
	ScoreErrors map[string]string
}

// Stat aggregates one evaluator across a run.
type Stat struct {
	Kind ReturnKind
	// Count is the number of records scored.
	Count int
	// Errors counts records this evaluator could not score.
	Errors int
	// Mean is the average score over scored records.
	Mean float64
	// TrueRatio equals Mean for boolean evaluators and is 0 otherwise.
	TrueRatio float64
}

// Report is the outcome of an evaluation run.
type Report struct {
	RunID    string
	Name     string
	Version  string
	Started  time.Time
	Finished time.Time
	Records  []RecordResult
	Stats    map[string]Stat
}

// Score returns the aggregate score of one evaluator: the true ratio for
// booleans, the mean for numbers.
func (r *Report) Score(evaluator string) (float64, error) {
	stat, ok := r.Stats[evaluator]
	if !ok {
		return 0, fmt.Errorf("evaluator %s not found in report %s", evaluator, r.Name)
	}
	if stat.Kind == ReturnBoolean {
		return stat.TrueRatio, nil
	}
	return stat.Mean, nil
}

type recordTask struct {
	ctx     context.Context
	spec    *RunSpec
	dp      Datapoint
	idx     int
	results []RecordResult
	wg      *sync.WaitGroup
}

// Run executes the evaluation on a bounded worker pool.
func Run(ctx context.Context, spec RunSpec) (*Report, error) {
	if spec.Pipeline == nil {
		return nil, fmt.Errorf("run %s: no pipeline", spec.Name)
	}
	if len(spec.Evaluators) == 0 {
		return nil, fmt.Errorf("run %s: no evaluators", spec.Name)
	}
	for _, e := range spec.Evaluators {
		if err := validateEvaluator(e); err != nil {
			return nil, fmt.Errorf("run %s: %w", spec.Name, err)
		}
	}

	workers := spec.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	report := &Report{
		RunID:   uuid.New().String(),
		Name:    spec.Name,
		Version: spec.Version,
		Started: time.Now(),
		Records: make([]RecordResult, len(spec.Dataset)),
	}

	pool, err := ants.NewPoolWithFunc(workers, func(args any) {
		task := args.(*recordTask)
		defer task.wg.Done()
		task.results[task.idx] = evaluateRecord(task.ctx, task.spec, task.idx, task.dp)
	})
	if err != nil {
		return nil, fmt.Errorf("run %s: create worker pool: %w", spec.Name, err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, dp := range spec.Dataset {
		wg.Add(1)
		task := &recordTask{
			ctx:     ctx,
			spec:    &spec,
			dp:      dp,
			idx:     i,
			results: report.Records,
			wg:      &wg,
		}
		if err := pool.Invoke(task); err != nil {
			wg.Done()
			report.Records[i] = RecordResult{Index: i, Error: fmt.Sprintf("submit record: %v", err)}
		}
	}
	wg.Wait()

	report.Finished = time.Now()
	report.Stats = aggregate(spec.Evaluators, report.Records)

	log.Infof("evaluation %s (%s): %d records, %d workers", spec.Name, report.RunID, len(spec.Dataset), workers)
	return report, nil
}

// evaluateRecord runs the pipeline and all evaluators for one datapoint.
// Failures stay local to the record.
func evaluateRecord(ctx context.Context, spec *RunSpec, idx int, dp Datapoint) RecordResult {
	result := RecordResult{
		Index:       idx,
		Scores:      make(map[string]float64),
		ScoreErrors: make(map[string]string),
	}

	output, err := spec.Pipeline(ctx, dp)
	if err != nil {
		result.Error = err.Error()
		log.Warnf("evaluation %s record %d: %v", spec.Name, idx, err)
		return result
	}
	result.Output = output

	sample := Sample{Inputs: dp.Inputs, Output: output, Target: dp.Target}
	for _, evaluator := range spec.Evaluators {
		if evaluator.RequiresTarget && dp.Target == "" {
			result.ScoreErrors[evaluator.Name] = "record has no target"
			continue
		}
		score, err := evaluator.Score(sample)
		if err != nil {
			result.ScoreErrors[evaluator.Name] = err.Error()
			continue
		}
		result.Scores[evaluator.Name] = score
	}
	return result
}

func aggregate(evaluators []Evaluator, records []RecordResult) map[string]Stat {
	stats := make(map[string]Stat, len(evaluators))
	for _, evaluator := range evaluators {
		stat := Stat{Kind: evaluator.Returns}
		sum := 0.0
		for _, record := range records {
			if record.Error != "" {
				stat.Errors++
				continue
			}
			if _, failed := record.ScoreErrors[evaluator.Name]; failed {
				stat.Errors++
				continue
			}
			score, ok := record.Scores[evaluator.Name]
			if !ok {
				continue
			}
			stat.Count++
			sum += score
		}
		if stat.Count > 0 {
			stat.Mean = sum / float64(stat.Count)
			if evaluator.Returns == ReturnBoolean {
				stat.TrueRatio = stat.Mean
			}
		}
		stats[evaluator.Name] = stat
	}
	return stats
}
