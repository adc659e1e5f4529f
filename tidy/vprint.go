package tidy

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"sync"
	"time"
)

// Verbose turns on rechain logging. The -verbose flag and the .verb
// repl command set it.
var Verbose bool

// OurStdout receives printed values, traces and rechain logs. Tests
// swap it for a buffer.
var OurStdout io.Writer = os.Stdout

var logMut sync.Mutex

const logStamp = "15:04:05.000"

// TSPrintf writes one log line: the caller's file:line, a time stamp,
// then the message.
func TSPrintf(format string, a ...interface{}) {
	logAt(2, format, a...)
}

// VPrintf is TSPrintf when Verbose is on. Callers that build costly
// arguments should test Verbose themselves.
func VPrintf(format string, a ...interface{}) {
	if Verbose {
		logAt(2, format, a...)
	}
}

func logAt(depth int, format string, a ...interface{}) {
	where := ""
	if _, file, line, ok := runtime.Caller(depth); ok {
		where = fmt.Sprintf("%s:%d", path.Base(file), line)
	}
	logMut.Lock()
	defer logMut.Unlock()
	fmt.Fprintf(OurStdout, "%s %s %s\n", where, time.Now().Format(logStamp), fmt.Sprintf(format, a...))
}

func panicOn(err error) {
	if err != nil {
		panic(err)
	}
}
