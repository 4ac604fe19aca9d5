package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v3"

	"csi/config"
	"csi/inspect"
	"csi/misc"
)

// document is machine readable report of a single source.
type document struct {
	RunID     string          `json:"run_id" yaml:"run_id"`
	Program   string          `json:"program" yaml:"program"`
	Version   string          `json:"version" yaml:"version"`
	Generated time.Time       `json:"generated" yaml:"generated"`
	Data      string          `json:"data_version,omitempty" yaml:"data_version,omitempty"`
	Source    string          `json:"source" yaml:"source"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	Result    *inspect.Result `json:"result,omitempty" yaml:"result,omitempty"`
}

type renderer struct {
	format       config.OutputFmt
	runID        uuid.UUID
	dataVersion  string
	showFeatures bool
	now          func() time.Time
}

func newRenderer(format config.OutputFmt, dataVersion string, showFeatures bool) *renderer {
	return &renderer{
		format:       format,
		runID:        uuid.New(),
		dataVersion:  dataVersion,
		showFeatures: showFeatures,
		now:          time.Now,
	}
}

func (r *renderer) document(o outcome) document {
	doc := document{
		RunID:     r.runID.String(),
		Program:   misc.GetAppName(),
		Version:   misc.GetVersion(),
		Generated: r.now().UTC().Truncate(time.Second),
		Data:      r.dataVersion,
		Source:    o.Source,
		Result:    o.Result,
	}
	if o.Err != nil {
		doc.Error = o.Err.Error()
	}
	return doc
}

// render writes outcomes to w. JSON output is a stream of documents, one per
// line, YAML output is a multi document stream.
func (r *renderer) render(w io.Writer, outcomes []outcome) error {
	switch r.format {
	case config.OutputFmtJson:
		enc := json.NewEncoder(w)
		for _, o := range outcomes {
			if err := enc.Encode(r.document(o)); err != nil {
				return fmt.Errorf("unable to encode json: %w", err)
			}
		}
	case config.OutputFmtYaml:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, o := range outcomes {
			if err := enc.Encode(r.document(o)); err != nil {
				return fmt.Errorf("unable to encode yaml: %w", err)
			}
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("unable to encode yaml: %w", err)
		}
	default:
		tw := newTreeWriter()
		for _, o := range outcomes {
			r.text(tw, o)
		}
		if _, err := tw.WriteTo(w); err != nil {
			return fmt.Errorf("unable to write report: %w", err)
		}
	}
	return nil
}

func (r *renderer) text(tw *treeWriter, o outcome) {
	tw.Line(0, "%s", o.Source)
	if o.Err != nil {
		tw.TextBlock(1, "error", o.Err.Error())
		return
	}

	res := o.Result
	rows := make([][]string, 0, len(res.Browsers))
	for _, rep := range res.Browsers {
		minimum := rep.Minimum
		switch {
		case minimum == inspect.AllVersions:
			minimum = "all versions"
		case minimum == "":
			minimum = "-"
		}
		latest := rep.Latest
		if latest == "" {
			latest = "-"
		}
		rows = append(rows, []string{rep.Browser.Title(), minimum, "latest " + latest, rep.Reason})
	}
	tw.Table(1, rows)

	if r.showFeatures && len(res.Features) > 0 {
		tw.Line(1, "features (%d):", len(res.Features))
		for _, f := range res.Features {
			tw.Line(2, "%s", f.Label)
		}
	}
	if limits := tied(res); len(limits) > 0 {
		tw.Line(1, "equally limiting: %s", strings.Join(limits, "; "))
	}
}

// tied lists browsers where more than one feature requires the minimum
// version.
func tied(res *inspect.Result) []string {
	var out []string
	for _, rep := range res.Browsers {
		if rep.Limit != nil && len(rep.Limit.Tied) > 1 {
			out = append(out, rep.Browser.Title()+": "+strings.Join(rep.Limit.Tied, ", "))
		}
	}
	return out
}
