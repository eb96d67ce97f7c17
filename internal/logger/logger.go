// Package logger configures the shared application logger.  Output goes
// to stdout and to a size-rotated file under logs/.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log = logrus.New()

// Init configures the logger for the given environment.  In prod the
// format switches to JSON and the level drops to Info; elsewhere text
// output at Debug level is used.  Safe to call once from main before
// any other package logs.
func Init(env string) {
	rotator := &lumberjack.Logger{
		Filename:   "logs/app.log",
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))

	if env == "prod" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}
}

// L returns the shared logger.
func L() *logrus.Logger { return log }
