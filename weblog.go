// Package weblog reads web server access logs and summarises who is using the
// server and what they are asking for: how many distinct addresses made
// requests, which addresses made the most, and which routes were requested
// most often.
//
// Input flows through a Pipe, which works like the pipes in a shell script.
// Start a pipe from a source, configure it, and finish with a sink:
//
//	report, err := weblog.File("access.log").WithEncoding("latin1").Analyze(weblog.DefaultOptions())
//
// If any pipe operation results in an error, the pipe's Error method will
// return that error, and all later pipe operations will be no-ops, so a whole
// chain can be written without checking the error at each stage. The sink
// returns the error too:
//
//	_, err := weblog.File("doesnt_exist.log").Analyze(weblog.DefaultOptions())
//	fmt.Println(err)
//	// Output: open doesnt_exist.log: no such file or directory
//
// Lines that are not in the access log format are not errors. They are logged
// as warnings, counted, and left out of the results.
//
// The pieces the pipe is built from are available on their own: Lines turns a
// sequence of arbitrary chunks of text into a sequence of lines, ParseLine
// turns a line into a Record, and a Store groups Records by address until it
// is sealed into a Snapshot for ranking.
package weblog
