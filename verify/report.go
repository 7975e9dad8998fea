package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Bogdan-Zinovij/pzks/program"
	"github.com/Bogdan-Zinovij/pzks/report"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Expression string
	UnitCount  int
	TaskCount  int
	MaxTime    int
	Issues     []Issue
	ByType     map[IssueType][]Issue
}

// GenerateReport runs every check on the trace and groups the issues.
func GenerateReport(t *report.Trace, prog *program.Program) *VerificationReport {
	r := &VerificationReport{
		Expression: t.Expression,
		UnitCount:  len(t.Timeline),
		MaxTime:    t.MaxTime,
		Issues:     RunChecks(t, prog),
		ByType:     make(map[IssueType][]Issue),
	}

	if prog != nil {
		r.TaskCount = len(prog.Tasks)
	}

	for _, issue := range r.Issues {
		r.ByType[issue.Type] = append(r.ByType[issue.Type], issue)
	}

	return r
}

// OK reports whether no issue was found.
func (r *VerificationReport) OK() bool {
	return len(r.Issues) == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "TRACE VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\nExpression: %s\n", r.Expression)
	fmt.Fprintf(w, "Units: %d, tasks: %d, clocks: %d\n", r.UnitCount, r.TaskCount, r.MaxTime)

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "CHECKS")
	fmt.Fprintln(w, separator)

	for _, typ := range []IssueType{IssuePort, IssueTimeline, IssueAssign, IssueDependency} {
		issues := r.ByType[typ]
		if len(issues) == 0 {
			fmt.Fprintf(w, "✓ %s: no issues\n", typ)
			continue
		}

		fmt.Fprintf(w, "\n%s ISSUES (%d):\n", typ, len(issues))
		fmt.Fprintln(w, dash)
		for _, issue := range issues {
			fmt.Fprintf(w, "  [%s t=%d task=%d] %s\n",
				unitOrDash(issue.Unit), issue.Clock, issue.TaskID, issue.Message)
		}
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, separator)

	if r.OK() {
		fmt.Fprintln(w, "✓ TRACE PASSED ALL CHECKS")
	} else {
		fmt.Fprintf(w, "⚠ %d issues detected\n", len(r.Issues))
	}

	fmt.Fprintln(w)
}

func unitOrDash(name string) string {
	if name == "" {
		return "-"
	}

	return name
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
