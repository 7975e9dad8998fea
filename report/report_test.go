package report_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Bogdan-Zinovij/pzks/api"
	"github.com/Bogdan-Zinovij/pzks/expr"
	"github.com/Bogdan-Zinovij/pzks/report"
)

func traceOf(expression string) *report.Trace {
	tree, err := expr.Parse(expression)
	Expect(err).NotTo(HaveOccurred())

	par, seq, err := api.Compare(tree, nil, nil)
	Expect(err).NotTo(HaveOccurred())

	return report.BuildTrace(par, seq, expression, tree)
}

var _ = Describe("Metrics", func() {
	DescribeTable("Speedup",
		func(seq, par int, want float64) {
			Expect(report.Speedup(seq, par)).To(Equal(want))
		},
		Entry("equal times", 4, 4, 1.0),
		Entry("rounded", 12, 10, 1.2),
		Entry("two decimals", 10, 3, 3.33),
		Entry("empty runs", 0, 0, 1.0),
		Entry("empty parallel run", 5, 0, 0.0),
	)

	It("should give zero utilization for an empty run", func() {
		Expect(report.Utilization(nil, 0)).To(Equal(0.0))
	})

	It("should compute the statistics of a single addition", func() {
		tr := traceOf("a+b")

		Expect(tr.Stats).To(Equal(report.Stats{
			ParallelTime:   4,
			SequentialTime: 4,
			Acceleration:   1,
			Effectiveness:  0.2,
		}))
	})

	It("should compute the statistics with port contention", func() {
		tr := traceOf("(a+b)+(c-d)")

		Expect(tr.Stats).To(Equal(report.Stats{
			ParallelTime:   10,
			SequentialTime: 12,
			Acceleration:   1.2,
			Effectiveness:  0.26,
		}))
	})
})

var _ = Describe("Trace", func() {
	var tr *report.Trace

	BeforeEach(func() {
		tr = traceOf("a+b")
	})

	It("should export one timeline per unit", func() {
		Expect(tr.RunID).NotTo(BeEmpty())
		Expect(tr.MaxTime).To(Equal(4))
		Expect(tr.Timeline).To(HaveLen(5))
		Expect(tr.Timeline[0].Name).To(Equal("P[+] 1"))
		Expect(tr.Timeline[0].Tasks).To(HaveLen(4))
	})

	It("should use the viewer field names", func() {
		buf := &bytes.Buffer{}
		Expect(tr.WriteJSON(buf)).To(Succeed())

		var doc map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &doc)).To(Succeed())
		Expect(doc).To(HaveKey("timeline"))
		Expect(doc).To(HaveKeyWithValue("maxTime", 4.0))
		Expect(doc).To(HaveKeyWithValue("expression", "a+b"))
		Expect(doc["stats"]).To(HaveKey("effectiveness"))

		timeline := doc["timeline"].([]any)
		first := timeline[0].(map[string]any)["tasks"].([]any)[0].(map[string]any)
		Expect(first).To(Equal(map[string]any{
			"clock":      1.0,
			"taskId":     3.0,
			"status":     "reading",
			"readedTask": 3.0,
		}))

		idle := timeline[1].(map[string]any)["tasks"].([]any)[0].(map[string]any)
		Expect(idle).To(HaveKeyWithValue("taskId", BeNil()))
		Expect(idle).NotTo(HaveKey("readedTask"))
	})

	It("should load a saved trace", func() {
		path := filepath.Join(GinkgoT().TempDir(), "data.json")
		Expect(tr.SaveToFile(path)).To(Succeed())

		loaded, err := report.LoadTrace(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.RunID).To(Equal(tr.RunID))
		Expect(loaded.Timeline).To(Equal(tr.Timeline))
		Expect(loaded.Stats).To(Equal(tr.Stats))
		Expect(loaded.Operations).To(Equal(tr.Operations))
	})

	It("should render console tables", func() {
		Expect(report.RenderStats(tr.Stats)).To(ContainSubstring("Acceleration"))

		timeline := report.RenderTimeline(tr)
		Expect(timeline).To(ContainSubstring("P[/] 1"))
		Expect(timeline).To(ContainSubstring("reading #3 <3"))
	})
})

var _ = Describe("Server", func() {
	var (
		tr     *report.Trace
		server *httptest.Server
	)

	BeforeEach(func() {
		tr = traceOf("(a+b)+(c-d)")
		server = httptest.NewServer(report.NewServer(tr))
	})

	AfterEach(func() {
		server.Close()
	})

	get := func(path string) (*http.Response, map[string]any) {
		resp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var body map[string]any
		if resp.StatusCode == http.StatusOK {
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		}

		return resp, body
	}

	It("should serve the trace", func() {
		resp, body := get("/api/v1/trace")

		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(HaveKeyWithValue("runId", tr.RunID))
		Expect(body).To(HaveKeyWithValue("maxTime", 10.0))
	})

	It("should serve the statistics", func() {
		resp, body := get("/api/v1/stats")

		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body["stats"]).To(HaveKeyWithValue("acceleration", 1.2))
	})

	It("should serve one unit", func() {
		resp, body := get("/api/v1/units/" + url.PathEscape("P[-] 1"))

		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(HaveKeyWithValue("name", "P[-] 1"))
		Expect(body["tasks"]).To(HaveLen(10))
	})

	It("should log responses that cannot be encoded", func() {
		previous := slog.Default()
		DeferCleanup(func() { slog.SetDefault(previous) })

		logs := &bytes.Buffer{}
		slog.SetDefault(slog.New(slog.NewTextHandler(logs, nil)))

		broken := httptest.NewServer(report.NewServer(&report.Trace{
			Stats: report.Stats{Acceleration: math.NaN()},
		}))
		defer broken.Close()

		resp, err := http.Get(broken.URL + "/api/v1/stats")
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()

		Expect(logs.String()).To(ContainSubstring("Failed to encode response"))
	})

	It("should answer 404 for an unknown unit", func() {
		resp, _ := get("/api/v1/units/nope")

		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})
})
