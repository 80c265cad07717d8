package tools

import (
	"fmt"
	"time"

	"github.com/golang/glog"
)

var isEnabled = true
var printTimestamp = true

func EnableLogger() {
	isEnabled = true
}

func DisableLogger() {
	isEnabled = false
}

func EnableLoggerTimestamp() {
	printTimestamp = true
}

func DisableLoggerTimestamp() {
	printTimestamp = false
}

// Prints progress messages to stdout and mirrors them to the glog info log
func LogOutput(val ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintln(val...))
	if isEnabled {
		if printTimestamp {
			fmt.Print("[" + time.Now().Format("2006-01-02 15.04:05.000") + "] ")
		}
		fmt.Println(val...)
	}
}
