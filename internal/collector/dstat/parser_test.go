package dstat

import (
	"errors"
	"strings"
	"testing"

	"heartbeat-agent/internal/domain"
)

const (
	testHeader = "----total-cpu-usage---- -dsk/total- ------memory-usage----- -net/total- ---load-avg--- ---paging-- ---system-- ---procs--- --io/total- --filesystem- proc -most-expensive- --most-expensive-"
	testLegend = "usr sys idl wai hiq siq| read  writ| used  buff  cach  free| recv  send| 1m   5m  15m |  in   out | int   csw |run blk new| read  writ|files  inodes|tota|  cpu process   |  memory process"
	testAvg    = " 45   3  52   0   0   0|  31k 1532B|48.2M 14.6M  108M  267M|   0     0 |3.81 2.56 2.35|   0     0 |2461   444 |  0   0 0.6|0.84  0.17 |  767   2896 |  69|darkice       42|mpd         9492k"
	testSample = " 56   8  36   0   0   0|   0     0 |48.4M 14.6M  108M  267M| 198B 1348B|3.81 2.56 2.35|   0     0 |2661   619 |  0   0   0|   0     0 |  768   2896 |  69|darkice       41|mpd         9492k"
)

func testReport() []string {
	return []string{testHeader, testLegend, testAvg, testSample}
}

func TestParse(t *testing.T) {
	status, err := Parse(testReport())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		row   string
		group string
		field string
		want  string
	}{
		{"average", "cpu", "usr", "45"},
		{"average", "cpu", "sys", "3"},
		{"average", "cpu", "idl", "52"},
		{"average", "cpu", "wai", "0"},
		{"average", "cpu", "siq", "0"},
		{"average", "disk", "read", "31k"},
		{"average", "disk", "writ", "1532B"},
		{"average", "mem", "used", "48.2M"},
		{"average", "mem", "buff", "14.6M"},
		{"average", "mem", "cach", "108M"},
		{"average", "mem", "free", "267M"},
		{"average", "net", "recv", "0"},
		{"average", "net", "send", "0"},
		{"average", "load", "1m", "3.81"},
		{"average", "load", "5m", "2.56"},
		{"average", "load", "15m", "2.35"},
		{"average", "page", "in", "0"},
		{"average", "page", "out", "0"},
		{"average", "sys", "int", "2461"},
		{"average", "sys", "csw", "444"},
		{"average", "proc", "run", "0"},
		{"average", "proc", "blk", "0"},
		{"average", "proc", "new", "0.6"},
		{"average", "io", "read", "0.84"},
		{"average", "io", "writ", "0.17"},
		{"average", "fs", "files", "767"},
		{"average", "fs", "inodes", "2896"},
		{"average", "proc-count", "tota", "69"},
		{"average", "top-cpu", "cpu", "darkice"},
		{"average", "top-cpu", "process", "42"},
		{"average", "top-mem", "memory", "mpd"},
		{"average", "top-mem", "process", "9492k"},
		{"sample", "cpu", "usr", "56"},
		{"sample", "net", "recv", "198B"},
		{"sample", "net", "send", "1348B"},
		{"sample", "top-cpu", "process", "41"},
	}

	for _, tt := range tests {
		t.Run(tt.row+"/"+tt.group+"/"+tt.field, func(t *testing.T) {
			snap := status.Average
			if tt.row == "sample" {
				snap = status.Sample
			}

			rec, ok := snap[tt.group]
			if !ok {
				t.Fatalf("group %q missing", tt.group)
			}
			got, ok := rec.Value(tt.field)
			if !ok {
				t.Fatalf("field %q missing or nil in %v", tt.field, rec)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if len(status.Average) != len(domain.Columns) || len(status.Sample) != len(domain.Columns) {
		t.Errorf("expected %d groups per row, got %d and %d",
			len(domain.Columns), len(status.Average), len(status.Sample))
	}
}

func TestParseInvalidHeader(t *testing.T) {
	headers := []string{
		"",
		"usr sys idl",
		" ----total-cpu-usage----",
		"total-cpu-usage----",
		"\x1b[7l----total-cpu-usage----",
	}

	for _, hdr := range headers {
		lines := testReport()
		lines[0] = hdr

		_, err := Parse(lines)
		if err == nil {
			t.Errorf("header %q: expected error", hdr)
			continue
		}
		if domain.KindOf(err) != domain.KindFormat {
			t.Errorf("header %q: kind = %v, want format", hdr, domain.KindOf(err))
		}
	}
}

func TestParseLegendMismatch(t *testing.T) {
	legends := []string{
		"",
		"usr sys idl wai hiq siq",
		"usr sys idl wai hiq siq| read  writ",
		testLegend + "| extra",
		strings.Replace(testLegend, "|tota|", "|tota ", 1),
	}

	for _, legend := range legends {
		lines := testReport()
		lines[1] = legend

		_, err := Parse(lines)
		if domain.KindOf(err) != domain.KindFormat {
			t.Errorf("legend %q: expected format error, got %v", legend, err)
			continue
		}
		if !strings.Contains(err.Error(), "top-mem") {
			t.Errorf("legend %q: error should name the expected columns: %v", legend, err)
		}
	}
}

func TestParseRaggedColumns(t *testing.T) {
	lines := testReport()
	lines[2] = strings.Replace(testAvg, "|darkice       42|", "|          |", 1)
	lines[3] = strings.Replace(testSample, "|  69|", "|  69 70|", 1)

	status, err := Parse(lines)
	if err != nil {
		t.Fatalf("ragged columns must not fail: %v", err)
	}

	topCPU := status.Average["top-cpu"]
	if len(topCPU) != 2 {
		t.Fatalf("top-cpu = %v, want both legend fields", topCPU)
	}
	for _, field := range []string{"cpu", "process"} {
		v, present := topCPU[field]
		if !present || v != nil {
			t.Errorf("average top-cpu.%s = %v, want nil", field, v)
		}
	}

	if v, present := status.Sample["proc-count"]["tota"]; !present || v != nil {
		t.Errorf("sample proc-count.tota = %v, want nil", v)
	}

	if got, _ := status.Average["top-mem"].Value("memory"); got != "mpd" {
		t.Errorf("neighbouring groups must be unaffected, top-mem.memory = %q", got)
	}
}

func TestParseShortDataRow(t *testing.T) {
	lines := testReport()
	lines[3] = " 56   8  36   0   0   0|   0     0 "

	status, err := Parse(lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got, _ := status.Sample["disk"].Value("read"); got != "0" {
		t.Errorf("disk.read = %q", got)
	}
	if v, present := status.Sample["mem"]["used"]; !present || v != nil {
		t.Errorf("missing group should map to nil, got %v", v)
	}
}

func TestParseMissingLines(t *testing.T) {
	full := testReport()
	for n := 0; n < len(full); n++ {
		_, err := Parse(append([]string(nil), full[:n]...))
		if domain.KindOf(err) != domain.KindFormat {
			t.Errorf("%d lines: expected format error, got %v", n, err)
		}
	}
}

func TestParseIgnoresTrailingLines(t *testing.T) {
	lines := append(testReport(), "garbage | that | should | be | ignored")

	status, err := Parse(lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, _ := status.Sample["cpu"].Value("usr"); got != "56" {
		t.Errorf("sample cpu.usr = %q", got)
	}
}

func TestExtractGroupDuplicateNames(t *testing.T) {
	rec := extractGroup(" read read ", "1k 2k")
	if got, _ := rec.Value("read"); got != "2k" {
		t.Errorf("later duplicate should win, got %q", got)
	}
}

func TestExtractGroupWhitespace(t *testing.T) {
	rec := extractGroup("\tused  buff ", "  48.2M\t\t14.6M")
	if got, _ := rec.Value("used"); got != "48.2M" {
		t.Errorf("used = %q", got)
	}
	if got, _ := rec.Value("buff"); got != "14.6M" {
		t.Errorf("buff = %q", got)
	}
}

func TestCleanLine(t *testing.T) {
	tests := map[string]string{
		"\x1b[7l----total-cpu-usage----": "----total-cpu-usage----",
		"  45   3  52 \x1b[7l":           "45   3  52",
		"  plain  ":                      "plain",
	}
	for in, want := range tests {
		if got := cleanLine(in); got != want {
			t.Errorf("cleanLine(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseErrorIsTyped(t *testing.T) {
	_, err := Parse([]string{"bad header"})

	var derr *domain.Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected *domain.Error, got %T", err)
	}
	if derr.Op != "dstat parse" {
		t.Errorf("Op = %q", derr.Op)
	}
}
