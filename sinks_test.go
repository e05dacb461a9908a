package weblog

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

// testLogger returns a logger writing text to buf, at debug level.
func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func readTestLog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/access.log")
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestIngestSkipsAndLogsLinesNotInLogFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	snap, err := File("testdata/access.log").WithLogger(testLogger(&buf)).Ingest()
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Lines: 7, Parsed: 5, Rejected: 2}
	if got := snap.Stats(); got != want {
		t.Errorf("want stats %+v, got %+v", want, got)
	}
	if snap.UniqueCount() != 4 {
		t.Errorf("want 4 unique addresses, got %d", snap.UniqueCount())
	}
	if snap.Len() != 5 {
		t.Errorf("want 5 records, got %d", snap.Len())
	}
	logged := buf.String()
	for _, want := range []string{
		`level=WARN msg="skipping line: no match" line=5`,
		`level=WARN msg="skipping line: no match" line=7 text="not a log line at all"`,
		`level=DEBUG msg=ingested lines=7 parsed=5 rejected=2 filtered=0 addresses=4`,
	} {
		if !strings.Contains(logged, want) {
			t.Errorf("log output does not contain %q:\n%s", want, logged)
		}
	}
}

func TestIngestExcludesMalformedLineFromAggregations(t *testing.T) {
	t.Parallel()
	input := `10.0.0.1 - - [10/Oct/2000:13:55:36 -0700] "GET /a HTTP/1.1" 200 1` + "\n" +
		`10.0.0.9 - - [10/Oct/2000:13:55:37 -0700] "GET /b HTTP/1.1 200 1` + "\n"
	var buf bytes.Buffer
	snap, err := Echo(input).WithLogger(testLogger(&buf)).Ingest()
	if err != nil {
		t.Fatal(err)
	}
	if snap.UniqueCount() != 1 {
		t.Errorf("want 1 unique address, got %d", snap.UniqueCount())
	}
	if got := snap.Records("10.0.0.9"); got != nil {
		t.Errorf("malformed line was stored: %v", got)
	}
	if got := snap.TopRoutes(5); len(got) != 1 || got[0].Key != "/a" {
		t.Errorf("want only /a ranked, got %v", got)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("no warning logged:\n%s", buf.String())
	}
}

func TestIngestWithQueryKeepsOnlyMatchingRecords(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	snap, err := Echo(readTestLog(t)).WithLogger(testLogger(&buf)).WithQuery(".status >= 300").Ingest()
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Lines: 7, Parsed: 5, Rejected: 2, Filtered: 3}
	if got := snap.Stats(); got != want {
		t.Errorf("want stats %+v, got %+v", want, got)
	}
	wantRoutes := []Rank{{Rank: 1, Key: "/login", Count: 1}, {Rank: 2, Key: "/missing", Count: 1}}
	if got := snap.TopRoutes(5); !cmp.Equal(wantRoutes, got) {
		t.Error(cmp.Diff(wantRoutes, got))
	}
}

func TestIngestLogsQueryErrorsAndSkipsRecord(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	snap, err := Echo(apacheLine + "\n").WithLogger(testLogger(&buf)).WithQuery(`.status + "x"`).Ingest()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Len() != 0 {
		t.Errorf("want no records, got %d", snap.Len())
	}
	if !strings.Contains(buf.String(), `msg="skipping record: query failed"`) {
		t.Errorf("query failure not logged:\n%s", buf.String())
	}
}

func TestIngestEachRunHasItsOwnStore(t *testing.T) {
	t.Parallel()
	input := readTestLog(t)
	first, err := Echo(input).WithLogger(testLogger(new(bytes.Buffer))).Ingest()
	if err != nil {
		t.Fatal(err)
	}
	second, err := Echo(input).WithLogger(testLogger(new(bytes.Buffer))).Ingest()
	if err != nil {
		t.Fatal(err)
	}
	if first.Len() != 5 || second.Len() != 5 {
		t.Errorf("want 5 records in each run, got %d and %d", first.Len(), second.Len())
	}
}

func TestAnalyzeProducesReport(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	opts := Options{TopActive: 1, TopRoutes: 2, By: "method", TopBy: 5}
	got, err := File("testdata/access.log").WithLogger(testLogger(&buf)).Analyze(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := &Report{
		Source:          "testdata/access.log",
		Encoding:        "utf-8",
		Options:         opts,
		Stats:           Stats{Lines: 7, Parsed: 5, Rejected: 2},
		UniqueAddresses: 4,
		TopActive:       []Rank{{Rank: 1, Key: "10.0.0.1", Count: 2}},
		TopRoutes: []Rank{
			{Rank: 1, Key: "/index.html", Count: 2},
			{Rank: 2, Key: "/apache_pb.gif", Count: 1},
		},
		TopBy: []Rank{
			{Rank: 1, Key: "GET", Count: 4},
			{Rank: 2, Key: "POST", Count: 1},
		},
	}
	if !cmp.Equal(want, got, cmpopts.IgnoreFields(Report{}, "RunID")) {
		t.Error(cmp.Diff(want, got, cmpopts.IgnoreFields(Report{}, "RunID")))
	}
	if _, err := uuid.Parse(got.RunID); err != nil {
		t.Errorf("run ID %q: %v", got.RunID, err)
	}
	if !strings.Contains(buf.String(), "run_id="+got.RunID) {
		t.Errorf("diagnostics not tagged with run ID %s:\n%s", got.RunID, buf.String())
	}
}

func TestAnalyzeGivesEachRunANewID(t *testing.T) {
	t.Parallel()
	input := readTestLog(t)
	first, err := Echo(input).WithLogger(testLogger(new(bytes.Buffer))).Analyze(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Echo(input).WithLogger(testLogger(new(bytes.Buffer))).Analyze(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if first.RunID == second.RunID {
		t.Errorf("both runs have ID %s", first.RunID)
	}
}

func TestAnalyzeRejectsUnknownField(t *testing.T) {
	t.Parallel()
	_, err := Echo(apacheLine).Analyze(Options{By: "colour"})
	if err == nil {
		t.Fatal("want error for unknown field, got nil")
	}
}

func TestSinksReturnPipeErrorStatus(t *testing.T) {
	t.Parallel()
	p := File("testdata/doesntexist.log")
	if !errors.Is(p.Error(), fs.ErrNotExist) {
		t.Fatalf("want ErrNotExist, got %v", p.Error())
	}
	if _, err := p.Ingest(); err != p.Error() {
		t.Errorf("Ingest returned %v but pipe error status was %v", err, p.Error())
	}
	if _, err := p.Analyze(DefaultOptions()); err != p.Error() {
		t.Errorf("Analyze returned %v but pipe error status was %v", err, p.Error())
	}
	if _, err := p.String(); err != p.Error() {
		t.Errorf("String returned %v but pipe error status was %v", err, p.Error())
	}
	if _, err := p.CountLines(); err != p.Error() {
		t.Errorf("CountLines returned %v but pipe error status was %v", err, p.Error())
	}
}

func TestErrorStatusSurvivesLaterStages(t *testing.T) {
	t.Parallel()
	p := Echo(apacheLine).WithEncoding("klingon").WithQuery(".status").WithChunkSize(10)
	if !errors.Is(p.Error(), ErrUnknownEncoding) {
		t.Errorf("want ErrUnknownEncoding, got %v", p.Error())
	}
	p = Echo(apacheLine).WithQuery(".status ==").WithEncoding("latin1")
	if p.Error() == nil || !strings.Contains(p.Error().Error(), "parsing query") {
		t.Errorf("want query parse error, got %v", p.Error())
	}
}

func TestString(t *testing.T) {
	t.Parallel()
	want := readTestLog(t)
	got, err := File("testdata/access.log").String()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestCountLines(t *testing.T) {
	t.Parallel()
	got, err := CountLines("testdata/access.log")
	if err != nil {
		t.Fatal(err)
	}
	if got != 7 {
		t.Errorf("want 7 lines, got %d", got)
	}
	got, err = Echo("a\nb").CountLines()
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("want 2 lines, got %d", got)
	}
}

// doSinksOnPipe calls every kind of sink method on the supplied pipe and
// tries to trigger a panic.
func doSinksOnPipe(t *testing.T, p *Pipe, kind string) {
	var action string
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic: %s on %s pipe", action, kind)
		}
	}()
	action = "String()"
	if _, err := p.String(); err != nil {
		t.Fatal(err)
	}
	action = "CountLines()"
	if _, err := p.CountLines(); err != nil {
		t.Fatal(err)
	}
	action = "Ingest()"
	snap, err := p.Ingest()
	if err != nil {
		t.Fatal(err)
	}
	if snap.UniqueCount() != 0 {
		t.Errorf("want no addresses from %s pipe, got %d", kind, snap.UniqueCount())
	}
	action = "Analyze()"
	if _, err := p.Analyze(DefaultOptions()); err != nil {
		t.Fatal(err)
	}
}

func TestNilPipeSinks(t *testing.T) {
	t.Parallel()
	doSinksOnPipe(t, nil, "nil")
}

func TestZeroPipeSinks(t *testing.T) {
	t.Parallel()
	doSinksOnPipe(t, &Pipe{}, "zero")
}
