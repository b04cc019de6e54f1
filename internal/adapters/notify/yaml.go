package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

type reportContact struct {
	UserName   string `yaml:"user_name"`
	NickName   string `yaml:"nick_name"`
	RemarkName string `yaml:"remark_name,omitempty"`
}

type reportFile struct {
	RunID      string          `yaml:"run_id"`
	Total      int             `yaml:"total"`
	Batches    int             `yaml:"batches"`
	StartedAt  time.Time       `yaml:"started_at"`
	FinishedAt time.Time       `yaml:"finished_at"`
	Deleted    []reportContact `yaml:"deleted"`
}

// YAMLExporter пишет отчёт в файл
type YAMLExporter struct {
	path string
}

func NewYAMLExporter(path string) *YAMLExporter {
	return &YAMLExporter{path: path}
}

func (e *YAMLExporter) Notify(_ context.Context, report *domain.DetectionReport) error {
	out := reportFile{
		RunID:      report.RunID,
		Total:      report.Total,
		Batches:    report.Batches,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Deleted:    make([]reportContact, len(report.Deleted)),
	}
	for i, c := range report.Deleted {
		out.Deleted[i] = reportContact{UserName: c.UserName, NickName: c.NickName, RemarkName: c.RemarkName}
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf("mkdir report dir: %w", err)
	}
	if err := os.WriteFile(e.path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", e.path, err)
	}
	return nil
}
