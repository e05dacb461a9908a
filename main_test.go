package weblog_test

import (
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/bitfield/weblog"
)

func TestMain(m *testing.M) {
	switch os.Getenv("WEBLOG_TEST") {
	case "stdin":
		// Report the number of unique addresses in the input
		report, err := weblog.Stdin().Analyze(weblog.DefaultOptions())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(report.UniqueAddresses)
	default:
		os.Exit(m.Run())
	}
}

func TestStdin(t *testing.T) {
	t.Parallel()
	input, err := os.Open("testdata/access.log")
	if err != nil {
		t.Fatal(err)
	}
	defer input.Close()
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), "WEBLOG_TEST=stdin")
	cmd.Stdin = input
	got, err := cmd.Output()
	if err != nil {
		t.Fatal(err)
	}
	if want := "4\n"; string(got) != want {
		t.Errorf("want %q, got %q", want, got)
	}
}
