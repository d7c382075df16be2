// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package guardrail

import (
	"log/slog"
	"time"
)

// AuditRecord captures one guardrail verdict for compliance review. Every
// evaluation produces a record, answerable or not.
type AuditRecord struct {
	Timestamp   time.Time
	Tenant      string
	Query       string
	ResultCount int
	Answerable  bool
	Bypassed    bool
	Confidence  float64
	Statistics  ScoreStatistics
	Rationale   string
	Latency     time.Duration
}

// AuditSink receives records as verdicts are produced. Implementations
// must tolerate concurrent calls.
type AuditSink interface {
	Record(rec AuditRecord)
}

// NoopAuditSink discards all records.
type NoopAuditSink struct{}

func (NoopAuditSink) Record(AuditRecord) {}

// SlogAuditSink writes each record as a structured log line.
type SlogAuditSink struct {
	logger *slog.Logger
}

// NewSlogAuditSink builds a sink over the given logger. A nil logger
// falls back to slog.Default().
func NewSlogAuditSink(logger *slog.Logger) *SlogAuditSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAuditSink{logger: logger}
}

func (s *SlogAuditSink) Record(rec AuditRecord) {
	s.logger.Info("answerability verdict",
		"tenant", rec.Tenant,
		"query", rec.Query,
		"answerable", rec.Answerable,
		"bypassed", rec.Bypassed,
		"confidence", rec.Confidence,
		"result_count", rec.ResultCount,
		"mean_score", rec.Statistics.Mean,
		"top_score", rec.Statistics.Max,
		"std_dev", rec.Statistics.StdDev,
		"rationale", rec.Rationale,
		"latency", rec.Latency,
	)
}
